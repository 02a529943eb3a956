package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fakeNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

type recordedChange struct {
	productID int
	oldPrice  decimal.Decimal
	newPrice  decimal.Decimal
	reason    string
}

type fakeRecorder struct {
	changes []recordedChange
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, productID int, oldPrice, newPrice decimal.Decimal, reason string) error {
	f.changes = append(f.changes, recordedChange{productID, oldPrice, newPrice, reason})
	return f.err
}

func TestService_UpdateRecordsPriceChange(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(NewInMemoryRepository(sampleSeed()), rec, nil)
	svc.now = fakeNow

	p := sampleSeed()[0]
	p.SellingPrice = decimal.RequireFromString("1250")
	updated, err := svc.Update(context.Background(), 1, p)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.UpdatedAt.Equal(fakeNow()) {
		t.Fatalf("expected updatedAt to be stamped, got %v", updated.UpdatedAt)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("expected one price change, got %d", len(rec.changes))
	}
	got := rec.changes[0]
	if got.productID != 1 || !got.oldPrice.Equal(decimal.NewFromInt(1200)) || !got.newPrice.Equal(decimal.NewFromInt(1250)) {
		t.Fatalf("unexpected change %+v", got)
	}
	if got.reason != manualPriceUpdateReason {
		t.Fatalf("unexpected reason %q", got.reason)
	}
}

func TestService_UpdateWithoutPriceChange(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(NewInMemoryRepository(sampleSeed()), rec, nil)

	p := sampleSeed()[0]
	p.StockQuantity = 99
	if _, err := svc.Update(context.Background(), 1, p); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(rec.changes) != 0 {
		t.Fatalf("no history expected when price unchanged, got %+v", rec.changes)
	}
}

func TestService_UpdateSurvivesHistoryFailure(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("history down")}
	svc := NewService(NewInMemoryRepository(sampleSeed()), rec, nil)

	p := sampleSeed()[0]
	p.SellingPrice = decimal.NewFromInt(1100)
	updated, err := svc.Update(context.Background(), 1, p)
	if err != nil {
		t.Fatalf("history failure must not fail the update: %v", err)
	}
	if !updated.SellingPrice.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("unexpected price %v", updated.SellingPrice)
	}
}

func TestService_UpdateMissing(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), nil, nil)
	if _, err := svc.Update(context.Background(), 7, Product{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SeedIfEmpty(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo, nil, nil)

	seeded, err := svc.SeedIfEmpty(context.Background())
	if err != nil || !seeded {
		t.Fatalf("expected seeding, got seeded=%v err=%v", seeded, err)
	}
	all, _ := repo.List(context.Background())
	if len(all) != 6 {
		t.Fatalf("expected 6 default products, got %d", len(all))
	}

	seeded, err = svc.SeedIfEmpty(context.Background())
	if err != nil || seeded {
		t.Fatalf("second call must not seed, got seeded=%v err=%v", seeded, err)
	}
}

func TestInMemoryRepository_ListBelowReorderLevel(t *testing.T) {
	repo := NewInMemoryRepository(DefaultProducts(fakeNow()))

	low, err := repo.ListBelowReorderLevel(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := make([]string, 0, len(low))
	for _, p := range low {
		names = append(names, p.Name)
	}
	want := []string{"Laptop Computer", "Mechanical Keyboard", "Webcam HD"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestInMemoryRepository_AssignsIDsAfterSeed(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 10, Name: "A"}})
	created, _ := repo.Create(context.Background(), Product{Name: "B"})
	if created.ID != 11 {
		t.Fatalf("expected id 11, got %d", created.ID)
	}
}
