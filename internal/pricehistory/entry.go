package pricehistory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is an immutable record of one selling price change.
type Entry struct {
	ID        int
	ProductID int
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
	Reason    string
	ChangedAt time.Time
}
