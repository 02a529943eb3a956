package product

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListBelowReorderLevel(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int, p Product) (Product, error)
	Delete(ctx context.Context, id int) error
	// Reset replaces all products with the provided list (used for dev / seeding)
	Reset(ctx context.Context, products []Product) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// running without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage map[int]Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make(map[int]Product, len(seed)),
		nextID:  1,
	}
	r.load(seed)
	return r
}

// load assigns ids to unsaved products and advances nextID past the largest id.
func (r *InMemoryRepository) load(products []Product) {
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		}
		r.storage[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
}

func (r *InMemoryRepository) sorted(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(nil), nil
}

func (r *InMemoryRepository) ListBelowReorderLevel(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(Product.BelowReorderLevel), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.storage[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.storage[p.ID] = p
	return p, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return Product{}, ErrNotFound
	}
	p.ID = id
	r.storage[id] = p
	return p, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

// Reset replaces the whole in-memory storage with the provided products.
func (r *InMemoryRepository) Reset(ctx context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make(map[int]Product, len(products))
	r.load(products)
	return nil
}
