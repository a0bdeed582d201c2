package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/go-faster/errors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestCartRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCartRepository(mock)

	price := decimal.NewFromInt(10_000_000)
	rows := pgxmock.NewRows([]string{
		"id", "product_id", "name", "capacity", "color", "price", "quantity", "line_total",
	}).AddRow(
		int64(1), int64(10), "iPhone 15", "128GB", "Black", price, int32(2), price.Mul(decimal.NewFromInt(2)),
	)

	mock.ExpectQuery(regexp.QuoteMeta(listCartItemsSQL)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "iPhone 15", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(20_000_000).Equal(items[0].LineTotal))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateQuantities_ClampsToOne(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCartRepository(mock)

	// A zero or negative request lands as quantity 1.
	mock.ExpectExec(regexp.QuoteMeta(updateCartQuantitySQL)).
		WithArgs(1, int64(5), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateQuantities(context.Background(), 7, map[int64]int{5: -3})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateQuantities_ScopedToUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCartRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(updateCartQuantitySQL)).
		WithArgs(4, int64(9), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0)) // row owned by someone else

	err := repo.UpdateQuantities(context.Background(), 7, map[int64]int{9: 4})

	require.NoError(t, err, "a non-matching row is not an error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateQuantities_ReportsFailures(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCartRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(updateCartQuantitySQL)).
		WithArgs(2, int64(5), int64(7)).
		WillReturnError(errors.New("connection reset"))

	err := repo.UpdateQuantities(context.Background(), 7, map[int64]int{5: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 items failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Remove(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCartRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(removeCartItemSQL)).
		WithArgs(int64(5), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Remove(context.Background(), 7, 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_RemoveMissingIsNoop(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCartRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(removeCartItemSQL)).
		WithArgs(int64(99), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Remove(context.Background(), 7, 99))
	require.NoError(t, mock.ExpectationsWereMet())
}
