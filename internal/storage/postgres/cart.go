package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/topzone/storefront/internal/domain/cart"
)

const (
	listCartItemsSQL = `SELECT ci.id, ci.product_id, p.name, p.capacity, p.color, p.price, ci.quantity,
		(p.price * ci.quantity) AS line_total
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.user_id = $1
		ORDER BY ci.id`

	updateCartQuantitySQL = `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`

	removeCartItemSQL = `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	db DB
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(db DB) *CartRepository {
	return &CartRepository{db: db}
}

// List returns the user's cart rows joined with product attributes, in
// insertion order.
func (r *CartRepository) List(ctx context.Context, userID int64) ([]cart.Item, error) {
	rows, err := r.db.Query(ctx, listCartItemsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanCartItem)
}

// UpdateQuantities applies each requested quantity, clamped to a minimum of
// 1, touching only rows owned by the user. Updates are applied row by row
// and are not rolled back on a later failure; any failure is reported as an
// aggregate error after all entries were attempted.
func (r *CartRepository) UpdateQuantities(ctx context.Context, userID int64, quantities map[int64]int) error {
	var firstErr error
	failed := 0
	for itemID, quantity := range quantities {
		if quantity < 1 {
			quantity = 1
		}
		if _, err := r.db.Exec(ctx, updateCartQuantitySQL, quantity, itemID, userID); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return errors.Wrapf(firstErr, "updating quantities: %d of %d items failed", failed, len(quantities))
	}
	return nil
}

// Remove deletes a single cart row owned by the user. Deleting a row that
// does not exist or belongs to someone else is a no-op.
func (r *CartRepository) Remove(ctx context.Context, userID, itemID int64) error {
	if _, err := r.db.Exec(ctx, removeCartItemSQL, itemID, userID); err != nil {
		return fmt.Errorf("removing cart item %d: %w", itemID, err)
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var (
		item      cart.Item
		unitPrice decimal.Decimal
		lineTotal decimal.Decimal
		quantity  int32
	)
	err := row.Scan(
		&item.ID, &item.ProductID, &item.Name, &item.Capacity, &item.Color,
		&unitPrice, &quantity, &lineTotal,
	)
	item.UnitPrice = unitPrice
	item.Quantity = int(quantity)
	item.LineTotal = lineTotal
	return item, err
}
