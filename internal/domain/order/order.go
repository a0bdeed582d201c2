package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the stored payment label. No payment capture happens
// here; fulfillment settles the payment out of band.
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOnlineWallet PaymentMethod = "online_wallet"
)

// ParsePaymentMethod maps a request value to a known PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCOD, PaymentBankTransfer, PaymentOnlineWallet:
		return PaymentMethod(s), true
	}
	return "", false
}

// StatusPending is the initial status of every order. Later transitions
// belong to the fulfillment system.
const StatusPending = "pending"

// Order is the order header plus its line items as written at checkout.
type Order struct {
	ID            int64
	UserID        int64
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	Status        string
	AddressID     int64
	CreatedAt     time.Time
	Items         []LineItem
}

// LineItem snapshots one cart entry at purchase time. UnitPrice is fixed at
// creation and never tracks later product price changes.
type LineItem struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// ErrCartConsumed is returned by Writer.Create when the cart purge found no
// rows even though the snapshot had items: a concurrent order for the same
// user already consumed the cart. The whole transaction is rolled back.
var ErrCartConsumed = errors.New("cart already consumed by another order")

// Step identifies the phase of order creation that failed.
type Step string

const (
	StepHeader    Step = "order header"
	StepLineItems Step = "order line items"
	StepClearCart Step = "clear cart"
)

// StepError reports a persistence failure during order creation, naming the
// step that failed. The transaction is rolled back in full: no partial
// order exists and the cart is left intact.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("order creation failed at %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Writer atomically creates an order. Inserting the header, inserting the
// line items, and purging the user's cart commit together or not at all.
type Writer interface {
	// Create persists the order and returns its new id.
	Create(ctx context.Context, o *Order) (int64, error)
}
