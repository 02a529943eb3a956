package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores recommendations as JSON strings in Redis.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Recommendation, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Recommendation{}, false, nil
		}
		return Recommendation{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var rec Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Recommendation{}, false, fmt.Errorf("decode cached recommendation %s: %w", key, err)
	}
	if rec.Reasons == nil {
		rec.Reasons = []string{}
	}
	return rec, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, rec Recommendation, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode recommendation %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
