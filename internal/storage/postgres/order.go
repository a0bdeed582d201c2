package postgres

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/topzone/storefront/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (user_id, total, payment_method, status, address_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ order.Writer = (*OrderRepository)(nil)

// OrderRepository implements order.Writer backed by PostgreSQL.
type OrderRepository struct {
	db DB
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create writes the order header, its line items, and purges the user's
// cart inside one transaction. Any step failure rolls back the whole unit
// and is reported as an order.StepError naming the step. A cart purge that
// matches no rows means a concurrent order already consumed the cart; the
// transaction aborts with order.ErrCartConsumed so the caller can treat the
// submission as an empty cart rather than create a duplicate order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "begin order transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx, insertOrderSQL,
		o.UserID, o.Total, string(o.PaymentMethod), o.Status, o.AddressID,
	).Scan(&orderID)
	if err != nil {
		return 0, &order.StepError{Step: order.StepHeader, Err: err}
	}

	for _, item := range o.Items {
		_, err := tx.Exec(ctx, insertOrderItemSQL,
			orderID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return 0, &order.StepError{Step: order.StepLineItems, Err: err}
		}
	}

	tag, err := tx.Exec(ctx, clearCartSQL, o.UserID)
	if err != nil {
		return 0, &order.StepError{Step: order.StepClearCart, Err: err}
	}
	if tag.RowsAffected() == 0 && len(o.Items) > 0 {
		return 0, order.ErrCartConsumed
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit order transaction")
	}
	return orderID, nil
}
