// Package cart holds a user's in-progress order lines.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item is one cart row joined with the product attributes needed for
// display and checkout.
type Item struct {
	ID        int64
	ProductID int64
	Name      string
	Capacity  string
	Color     string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Repository defines persistence operations for cart line items. Every
// operation is scoped to the owning user; rows of other users are never
// touched.
type Repository interface {
	// List returns the user's cart rows in insertion order. An empty cart
	// yields an empty slice.
	List(ctx context.Context, userID int64) ([]Item, error)
	// UpdateQuantities applies each requested quantity, clamped to a minimum
	// of 1. Updates are best-effort per row: a failure is reported but does
	// not roll back updates already applied.
	UpdateQuantities(ctx context.Context, userID int64, quantities map[int64]int) error
	// Remove deletes a single cart row owned by the user.
	Remove(ctx context.Context, userID, itemID int64) error
}

// Subtotal sums the line totals of the given items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}
