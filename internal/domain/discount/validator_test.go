package discount

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCodeRepo struct {
	rule *Code
	err  error
}

func (m *mockCodeRepo) FindByCode(_ context.Context, _ string) (*Code, error) {
	return m.rule, m.err
}

func TestValidator_Validate(t *testing.T) {
	fixedNow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	monthAgo := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	nextMonth := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	subtotal := decimal.NewFromInt(20_000_000)

	tests := []struct {
		name        string
		repo        *mockCodeRepo
		wantValid   bool
		wantPercent decimal.Decimal
	}{
		{
			name: "valid code within window and above minimum",
			repo: &mockCodeRepo{rule: &Code{
				Code: "SALE10", Active: true,
				Percent:  decimal.NewFromInt(10),
				MinOrder: decimal.NewFromInt(10_000_000),
				MaxUses:  100, Uses: 5,
				StartsOn: monthAgo, EndsOn: nextMonth,
			}},
			wantValid:   true,
			wantPercent: decimal.NewFromInt(10),
		},
		{
			name: "unknown code",
			repo: &mockCodeRepo{err: ErrCodeNotFound},
		},
		{
			name: "inactive code",
			repo: &mockCodeRepo{rule: &Code{
				Code: "OFF", Active: false,
				Percent: decimal.NewFromInt(10),
				MaxUses: 100,
				StartsOn: monthAgo, EndsOn: nextMonth,
			}},
		},
		{
			name: "usage exhausted",
			repo: &mockCodeRepo{rule: &Code{
				Code: "USED", Active: true,
				Percent: decimal.NewFromInt(10),
				MaxUses: 100, Uses: 100,
				StartsOn: monthAgo, EndsOn: nextMonth,
			}},
		},
		{
			name: "not started yet",
			repo: &mockCodeRepo{rule: &Code{
				Code: "SOON", Active: true,
				Percent: decimal.NewFromInt(10),
				MaxUses: 100,
				StartsOn: tomorrow, EndsOn: nextMonth,
			}},
		},
		{
			name: "already ended",
			repo: &mockCodeRepo{rule: &Code{
				Code: "LATE", Active: true,
				Percent: decimal.NewFromInt(10),
				MaxUses: 100,
				StartsOn: monthAgo, EndsOn: yesterday,
			}},
		},
		{
			name: "window boundaries are inclusive",
			repo: &mockCodeRepo{rule: &Code{
				Code: "EDGE", Active: true,
				Percent: decimal.NewFromInt(10),
				MaxUses: 100,
				StartsOn: today, EndsOn: today,
			}},
			wantValid:   true,
			wantPercent: decimal.NewFromInt(10),
		},
		{
			name: "subtotal below minimum order",
			repo: &mockCodeRepo{rule: &Code{
				Code: "VIP20", Active: true,
				Percent:  decimal.NewFromInt(20),
				MinOrder: decimal.NewFromInt(25_000_000),
				MaxUses:  100,
				StartsOn: monthAgo, EndsOn: nextMonth,
			}},
		},
		{
			name: "lookup failure is not surfaced",
			repo: &mockCodeRepo{err: errors.New("connection reset")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.repo)
			v.now = func() time.Time { return fixedNow }

			got := v.Validate(context.Background(), "CODE", subtotal)

			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.True(t, tt.wantPercent.Equal(got.Percent),
					"expected percent %s, got %s", tt.wantPercent, got.Percent)
			}
		})
	}
}

func TestResult_Amount(t *testing.T) {
	res := Result{Valid: true, Percent: decimal.NewFromInt(10)}

	got := res.Amount(decimal.NewFromInt(20_000_000))
	assert.True(t, decimal.NewFromInt(2_000_000).Equal(got), "got %s", got)

	// Fractional amounts round to whole currency units.
	got = res.Amount(decimal.NewFromInt(15))
	assert.True(t, decimal.NewFromInt(2).Equal(got), "got %s", got)
}

func TestResult_AmountInvalid(t *testing.T) {
	res := Result{Valid: false, Percent: decimal.NewFromInt(10)}
	require.True(t, decimal.Zero.Equal(res.Amount(decimal.NewFromInt(100))))
}
