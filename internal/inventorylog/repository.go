package inventorylog

import (
	"context"
	"sync"
)

type Repository interface {
	Add(ctx context.Context, e Entry) (Entry, error)
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
	// ListByProductIDs is List restricted to the given products.
	ListByProductIDs(ctx context.Context, ids []int, limit int) ([]Entry, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Add(ctx context.Context, e Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *InMemoryRepository) List(ctx context.Context, limit int) ([]Entry, error) {
	return r.newest(limit, nil), nil
}

func (r *InMemoryRepository) ListByProductIDs(ctx context.Context, ids []int, limit int) ([]Entry, error) {
	if len(ids) == 0 {
		return []Entry{}, nil
	}
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return r.newest(limit, wanted), nil
}

// newest walks entries from the most recently added one.
func (r *InMemoryRepository) newest(limit int, wanted map[int]bool) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i]
		if wanted != nil && !wanted[e.ProductID] {
			continue
		}
		out = append(out, e)
	}
	return out
}
