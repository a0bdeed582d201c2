package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/topzone/storefront/internal/domain/discount"
)

const findDiscountCodeSQL = `SELECT code, active, percent, min_order, max_uses, uses, starts_on, ends_on, description
	FROM discount_codes
	WHERE UPPER(code) = UPPER($1)`

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	db DB
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(db DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// FindByCode looks up a discount code rule (case-insensitive). Returns
// discount.ErrCodeNotFound when no such code exists; eligibility checks
// belong to the validator.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Code, error) {
	rows, err := r.db.Query(ctx, findDiscountCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding discount code %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanDiscountCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrCodeNotFound
		}
		return nil, fmt.Errorf("finding discount code %q: %w", code, err)
	}
	return &rule, nil
}

func scanDiscountCode(row pgx.CollectableRow) (discount.Code, error) {
	var (
		c        discount.Code
		percent  decimal.Decimal
		minOrder decimal.Decimal
		maxUses  int32
		uses     int32
	)
	err := row.Scan(
		&c.Code, &c.Active, &percent, &minOrder, &maxUses, &uses,
		&c.StartsOn, &c.EndsOn, &c.Description,
	)
	c.Percent = percent
	c.MinOrder = minOrder
	c.MaxUses = int(maxUses)
	c.Uses = int(uses)
	return c, err
}
