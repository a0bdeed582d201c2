package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Checker validates a discount code against an order subtotal.
type Checker interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) Result
}

// Validator implements Checker by looking up code rules from a Repository.
type Validator struct {
	repo Repository
	now  func() time.Time
}

// NewValidator creates a Validator backed by the given Repository.
func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo, now: time.Now}
}

// Validate looks up the code and checks it against the subtotal. Any miss
// yields the zero Result: an unknown code, an exhausted or out-of-window
// code, a subtotal below the minimum, or a lookup failure. A failed lookup
// is logged but deliberately not surfaced as an error; an invalid code is
// not an error condition, it simply grants no discount.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) Result {
	rule, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrCodeNotFound) {
			zctx.From(ctx).Warn("Discount code lookup failed", zap.Error(err))
		}
		return Result{}
	}

	if !rule.Applicable(v.now(), subtotal) {
		return Result{}
	}

	return Result{Valid: true, Percent: rule.Percent}
}
