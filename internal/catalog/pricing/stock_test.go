package pricing

import (
	"errors"
	"testing"
)

func TestStockStatusScenarios(t *testing.T) {
	stock, err := StockStatus(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock.Level != OutOfStock || stock.Label() != "Out of stock" || stock.Available() {
		t.Fatalf("expected out of stock, got %+v", stock)
	}

	stock, err = StockStatus(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock.Level != LowStock || stock.Remaining != 3 {
		t.Fatalf("expected LOW_STOCK(3), got %+v", stock)
	}
	if stock.Label() != "Only 3 left" {
		t.Fatalf("expected label %q, got %q", "Only 3 left", stock.Label())
	}

	stock, err = StockStatus(6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock.Level != InStock || stock.Label() != "In stock" {
		t.Fatalf("expected in stock, got %+v", stock)
	}
}

func TestStockStatusPartitionsInventory(t *testing.T) {
	for inventory := 0; inventory <= 1000; inventory++ {
		stock, err := StockStatus(inventory)
		if err != nil {
			t.Fatalf("inventory=%d: unexpected error %v", inventory, err)
		}

		var want StockLevel
		switch {
		case inventory == 0:
			want = OutOfStock
		case inventory <= LowStockThreshold:
			want = LowStock
		default:
			want = InStock
		}
		if stock.Level != want {
			t.Fatalf("inventory=%d: expected %s, got %s", inventory, want, stock.Level)
		}
		if stock.Level == LowStock && stock.Remaining != inventory {
			t.Fatalf("inventory=%d: expected remaining count to match, got %d", inventory, stock.Remaining)
		}
	}
}

func TestStockStatusRejectsNegativeInventory(t *testing.T) {
	if _, err := StockStatus(-1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
