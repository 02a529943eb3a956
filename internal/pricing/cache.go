package pricing

import (
	"context"
	"strconv"
	"time"
)

// DefaultTTL is how long a computed recommendation stays cached.
const DefaultTTL = 30 * time.Minute

// Cache stores recommendations keyed by CacheKey. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (Recommendation, bool, error)
	Set(ctx context.Context, key string, rec Recommendation, ttl time.Duration) error
}

// CacheKey returns the cache key for a product's recommendation.
func CacheKey(productID int) string {
	return "price_recommendation_" + strconv.Itoa(productID)
}
