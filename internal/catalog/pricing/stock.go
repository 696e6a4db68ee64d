package pricing

import "fmt"

// LowStockThreshold is the highest inventory count still shown as low stock.
const LowStockThreshold = 5

// StockLevel is one of three mutually exclusive inventory classes.
type StockLevel string

const (
	OutOfStock StockLevel = "OUT_OF_STOCK"
	LowStock   StockLevel = "LOW_STOCK"
	InStock    StockLevel = "IN_STOCK"
)

// Stock is the display classification of a product's inventory.
// Remaining is only meaningful for LowStock.
type Stock struct {
	Level     StockLevel
	Remaining int
}

// StockStatus classifies inventory into exactly one StockLevel.
func StockStatus(inventory int) (Stock, error) {
	switch {
	case inventory < 0:
		return Stock{}, fmt.Errorf("%w: inventory %d is negative", ErrInvalidInput, inventory)
	case inventory == 0:
		return Stock{Level: OutOfStock}, nil
	case inventory <= LowStockThreshold:
		return Stock{Level: LowStock, Remaining: inventory}, nil
	default:
		return Stock{Level: InStock}, nil
	}
}

// Label is the customer-facing text for the stock level.
func (s Stock) Label() string {
	switch s.Level {
	case OutOfStock:
		return "Out of stock"
	case LowStock:
		return fmt.Sprintf("Only %d left", s.Remaining)
	case InStock:
		return "In stock"
	default:
		return ""
	}
}

// Available reports whether the product can currently be bought.
func (s Stock) Available() bool {
	return s.Level == LowStock || s.Level == InStock
}
