package pricehistory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record stores a price change stamped with the current time.
func (s *Service) Record(ctx context.Context, productID int, oldPrice, newPrice decimal.Decimal, reason string) error {
	_, err := s.repo.Add(ctx, Entry{
		ProductID: productID,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		Reason:    reason,
		ChangedAt: s.now(),
	})
	return err
}

func (s *Service) ListByProduct(ctx context.Context, productID int) ([]Entry, error) {
	return s.repo.ListByProduct(ctx, productID)
}
