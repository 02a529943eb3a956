package pricing

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryEntry struct {
	rec       Recommendation
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with absolute expiration.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Recommendation, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Recommendation{}, false, nil
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// the entry may have been overwritten since the read lock was released
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Recommendation{}, false, nil
	}
	return cloneRecommendation(e.rec), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, rec Recommendation, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		rec:       cloneRecommendation(rec),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// callers must not be able to mutate a cached value through its reasons slice
func cloneRecommendation(rec Recommendation) Recommendation {
	rec.Reasons = slices.Clone(rec.Reasons)
	if rec.Reasons == nil {
		rec.Reasons = []string{}
	}
	return rec
}
