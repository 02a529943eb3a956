package pricehistory

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	Add(ctx context.Context, e Entry) (Entry, error)
	// ListByProduct returns the entries of one product, newest first.
	ListByProduct(ctx context.Context, productID int) ([]Entry, error)
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

func (r *InMemoryRepository) ListByProduct(ctx context.Context, productID int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0)
	for _, e := range r.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ChangedAt.Equal(out[j].ChangedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].ChangedAt.After(out[j].ChangedAt)
	})
	return out, nil
}
