package inventorylog

import "time"

// Entry records that a product was found below its reorder level.
type Entry struct {
	ID            int
	ProductID     int
	ProductName   string
	StockQuantity int
	ReorderLevel  int
	Message       string
	LoggedAt      time.Time
}
