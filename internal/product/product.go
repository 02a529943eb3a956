package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an inventory item and maps to the `products` table.
type Product struct {
	ID            int
	Name          string
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity int
	ReorderLevel  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowReorderLevel reports whether stock on hand has dropped under the
// reorder threshold.
func (p Product) BelowReorderLevel() bool {
	return p.StockQuantity < p.ReorderLevel
}
