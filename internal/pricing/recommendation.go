// Package pricing computes rule-based price recommendations for products and
// caches them per product.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/wichananm65/smart-inventory-backend/internal/product"
)

// Snapshot is the read-only view of a product the rule pipeline works on.
type Snapshot struct {
	ID            int
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity int
	ReorderLevel  int
}

// SnapshotOf captures the pricing-relevant fields of p.
func SnapshotOf(p product.Product) Snapshot {
	return Snapshot{
		ID:            p.ID,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
	}
}

// Recommendation is the outcome of one pipeline run. Reasons lists, in
// pipeline order, every stage that changed the price.
type Recommendation struct {
	ProductID        int             `json:"productId"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	RecommendedPrice decimal.Decimal `json:"recommendedPrice"`
	Reasons          []string        `json:"reasons"`
}
