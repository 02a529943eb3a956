package product

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceRecorder stores selling price changes made through Update.
type PriceRecorder interface {
	Record(ctx context.Context, productID int, oldPrice, newPrice decimal.Decimal, reason string) error
}

const manualPriceUpdateReason = "Manual price update"

type Service struct {
	repo    Repository
	history PriceRecorder
	log     *zap.Logger
	now     func() time.Time
}

// NewService builds a product service. history may be nil, in which case
// price changes are only logged.
func NewService(repo Repository, history PriceRecorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		history: history,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListBelowReorderLevel(ctx context.Context) ([]Product, error) {
	return s.repo.ListBelowReorderLevel(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.log.Info("product created", zap.Int("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update overwrites a product and records a price history entry when the
// selling price changed.
func (s *Service) Update(ctx context.Context, id int, p Product) (Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Product{}, err
	}

	if !existing.SellingPrice.Equal(updated.SellingPrice) {
		s.log.Info("product price updated",
			zap.Int("product_id", id),
			zap.String("name", updated.Name),
			zap.String("old_price", existing.SellingPrice.StringFixed(2)),
			zap.String("new_price", updated.SellingPrice.StringFixed(2)),
		)
		if s.history != nil {
			if err := s.history.Record(ctx, id, existing.SellingPrice, updated.SellingPrice, manualPriceUpdateReason); err != nil {
				// the product row is already saved
				s.log.Error("record price history failed", zap.Int("product_id", id), zap.Error(err))
			}
		}
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Int("product_id", id))
	return nil
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(ctx context.Context, products []Product) error {
	now := s.now()
	for i := range products {
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		products[i].UpdatedAt = now
	}
	return s.repo.Reset(ctx, products)
}

// SeedIfEmpty inserts DefaultProducts when the store holds no products and
// reports whether it did.
func (s *Service) SeedIfEmpty(ctx context.Context) (bool, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := s.repo.Reset(ctx, DefaultProducts(s.now())); err != nil {
		return false, fmt.Errorf("seed products: %w", err)
	}
	return true, nil
}
