// Package pricing holds the display rules shared by the product listing and the
// product detail page: sale detection, discount percentage, stock status, price
// formatting and tag truncation.
//
// Everything here is a pure function of its arguments and safe for concurrent use.
package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports product data that violates the catalog's integrity
// rules (negative price or inventory). Callers match it with errors.Is.
var ErrInvalidInput = errors.New("pricing: invalid input")

// Validate checks the preconditions shared by every rule in this package.
func Validate(priceCents int64, inventory int) error {
	if priceCents < 0 {
		return fmt.Errorf("%w: price %d is negative", ErrInvalidInput, priceCents)
	}
	if inventory < 0 {
		return fmt.Errorf("%w: inventory %d is negative", ErrInvalidInput, inventory)
	}
	return nil
}

// IsOnSale reports whether a compare-at price is present and strictly above
// the current price. A zero or negative compare-at price is never a baseline,
// and a negative price is invalid data, never a sale.
func IsOnSale(priceCents int64, compareAtCents *int64) bool {
	if compareAtCents == nil || priceCents < 0 {
		return false
	}
	compareAt := *compareAtCents
	return compareAt > 0 && compareAt > priceCents
}

// DiscountPercent returns the whole-number discount of price against the
// compare-at price, rounded half away from zero. It returns 0 when the product
// is not on sale. For a positive price the result stays within [1, 99] so a
// badge never reads "0% OFF" or "100% OFF". A negative price fails with
// ErrInvalidInput.
func DiscountPercent(priceCents int64, compareAtCents *int64) (int, error) {
	if priceCents < 0 {
		return 0, fmt.Errorf("%w: price %d is negative", ErrInvalidInput, priceCents)
	}
	if !IsOnSale(priceCents, compareAtCents) {
		return 0, nil
	}

	compareAt := *compareAtCents
	diff := compareAt - priceCents
	// round(diff/compareAt*100) without floats: both operands are positive.
	pct := (200*diff + compareAt) / (2 * compareAt)

	if priceCents > 0 {
		if pct < 1 {
			pct = 1
		}
		if pct > 99 {
			pct = 99
		}
	}
	return int(pct), nil
}

// SaleBadge renders the badge text shown on sale products, e.g. "-20% OFF".
// It returns an empty string when there is no sale.
func SaleBadge(priceCents int64, compareAtCents *int64) (string, error) {
	pct, err := DiscountPercent(priceCents, compareAtCents)
	if err != nil || pct == 0 {
		return "", err
	}
	return fmt.Sprintf("-%d%% OFF", pct), nil
}

// TruncateTags returns the first limit tags and the number of tags left out.
// Order is preserved and duplicates are kept.
func TruncateTags(tags []string, limit int) ([]string, int) {
	if limit < 0 {
		limit = 0
	}
	if len(tags) <= limit {
		shown := make([]string, len(tags))
		copy(shown, tags)
		return shown, 0
	}

	shown := make([]string, limit)
	copy(shown, tags[:limit])
	return shown, len(tags) - limit
}
