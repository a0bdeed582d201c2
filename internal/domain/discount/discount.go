// Package discount implements promotional code validation and the
// session-scoped pending-code state.
package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrCodeNotFound is returned by Repository when no matching active code
// exists.
var ErrCodeNotFound = errors.New("discount code not found")

// Code is a promotional code rule as stored.
type Code struct {
	Code        string
	Active      bool
	Percent     decimal.Decimal
	MinOrder    decimal.Decimal
	MaxUses     int
	Uses        int
	StartsOn    time.Time
	EndsOn      time.Time
	Description string
}

// Applicable reports whether the code can reduce an order with the given
// subtotal at the given time. All four conditions must hold: the code is
// active, it has usage capacity left, the current date falls inside the
// validity window (inclusive on both ends), and the subtotal meets the
// minimum order value.
func (c *Code) Applicable(now time.Time, subtotal decimal.Decimal) bool {
	if !c.Active {
		return false
	}
	if c.Uses >= c.MaxUses {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if today.Before(c.StartsOn) || today.After(c.EndsOn) {
		return false
	}
	return subtotal.GreaterThanOrEqual(c.MinOrder)
}

// Result is the outcome of validating a code against a subtotal. An invalid
// code yields the zero Result: not valid, zero percent.
type Result struct {
	Valid   bool
	Percent decimal.Decimal
}

// Amount computes the discount amount for the subtotal, rounded to whole
// currency units. Zero when the result is not valid.
func (r Result) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if !r.Valid {
		return decimal.Zero
	}
	return subtotal.Mul(r.Percent).Div(hundred).Round(0)
}

var hundred = decimal.NewFromInt(100)

// Repository provides lookup of discount code rules.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Code, error)
}

// Store keeps the pending discount code a session has applied but not yet
// redeemed. At most one code is pending per session; it survives across
// requests and is cleared after a successful order.
type Store interface {
	// Pending returns the session's pending code, or "" when none is set.
	Pending(ctx context.Context, token string) (string, error)
	SetPending(ctx context.Context, token, code string) error
	ClearPending(ctx context.Context, token string) error
}
