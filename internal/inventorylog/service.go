package inventorylog

import (
	"context"
	"fmt"
	"time"

	"github.com/wichananm65/smart-inventory-backend/internal/product"
)

const DefaultLimit = 50

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record logs that p is below its reorder level.
func (s *Service) Record(ctx context.Context, p product.Product) (Entry, error) {
	return s.repo.Add(ctx, Entry{
		ProductID:     p.ID,
		ProductName:   p.Name,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		Message: fmt.Sprintf("Product '%s' has stock quantity (%d) below reorder level (%d).",
			p.Name, p.StockQuantity, p.ReorderLevel),
		LoggedAt: s.now(),
	})
}

// List returns the newest entries, optionally restricted to productIDs.
func (s *Service) List(ctx context.Context, productIDs []int, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(productIDs) > 0 {
		return s.repo.ListByProductIDs(ctx, productIDs, limit)
	}
	return s.repo.List(ctx, limit)
}
