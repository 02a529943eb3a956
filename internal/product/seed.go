package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProducts is the sample catalogue inserted into an empty store.
func DefaultProducts(now time.Time) []Product {
	item := func(name, cost, selling string, stock, reorder int) Product {
		return Product{
			Name:          name,
			CostPrice:     decimal.RequireFromString(cost),
			SellingPrice:  decimal.RequireFromString(selling),
			StockQuantity: stock,
			ReorderLevel:  reorder,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	return []Product{
		item("Laptop Computer", "800.00", "1200.00", 15, 20),
		item("Wireless Mouse", "15.00", "25.00", 150, 30),
		item("Mechanical Keyboard", "60.00", "95.00", 8, 15),
		item("USB-C Cable", "5.00", "12.00", 200, 50),
		item("Monitor 27 inch", "300.00", "450.00", 12, 10),
		item("Webcam HD", "40.00", "65.00", 5, 10),
	}
}
