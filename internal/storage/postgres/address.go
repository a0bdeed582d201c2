package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/topzone/storefront/internal/domain/address"
)

const listAddressesSQL = `SELECT id, user_id, recipient, address_line, phone
	FROM addresses
	WHERE user_id = $1
	ORDER BY id ASC`

var _ address.Repository = (*AddressRepository)(nil)

// AddressRepository implements address.Repository backed by PostgreSQL.
type AddressRepository struct {
	db DB
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(db DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ListByUser returns the user's saved addresses in creation order.
func (r *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]address.Address, error) {
	rows, err := r.db.Query(ctx, listAddressesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (address.Address, error) {
		var a address.Address
		err := row.Scan(&a.ID, &a.UserID, &a.Recipient, &a.Line, &a.Phone)
		return a, err
	})
}
