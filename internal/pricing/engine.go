package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wichananm65/smart-inventory-backend/internal/product"
)

// ErrProductNotFound is returned when the requested product does not exist.
var ErrProductNotFound = fmt.Errorf("pricing: %w", product.ErrNotFound)

// ProductGetter is the slice of the product store the engine needs.
type ProductGetter interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
}

// Engine serves recommendations cache-first.
type Engine struct {
	products ProductGetter
	cache    Cache
	ttl      time.Duration
}

func NewEngine(products ProductGetter, cache Cache, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Engine{products: products, cache: cache, ttl: ttl}
}

// GetRecommendation returns the cached recommendation for productID, or
// computes and caches a new one on a miss. A cached value is returned as is
// even if the product changed after it was written.
func (e *Engine) GetRecommendation(ctx context.Context, productID int) (Recommendation, error) {
	key := CacheKey(productID)
	rec, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		return Recommendation{}, fmt.Errorf("read recommendation cache: %w", err)
	}
	if ok {
		return rec, nil
	}
	return e.compute(ctx, productID)
}

// Refresh recomputes the recommendation for productID and overwrites the
// cache entry, ignoring any value already cached.
func (e *Engine) Refresh(ctx context.Context, productID int) (Recommendation, error) {
	return e.compute(ctx, productID)
}

// Evaluate runs the rule pipeline without touching the store or the cache.
func (e *Engine) Evaluate(s Snapshot) Recommendation {
	return Evaluate(s)
}

func (e *Engine) compute(ctx context.Context, productID int) (Recommendation, error) {
	p, err := e.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return Recommendation{}, ErrProductNotFound
		}
		return Recommendation{}, fmt.Errorf("load product %d: %w", productID, err)
	}

	rec := Evaluate(SnapshotOf(p))
	if err := e.cache.Set(ctx, CacheKey(productID), rec, e.ttl); err != nil {
		return Recommendation{}, fmt.Errorf("write recommendation cache: %w", err)
	}
	return rec, nil
}
