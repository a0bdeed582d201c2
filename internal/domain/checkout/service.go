// Package checkout sequences cart edits, discount application, and atomic
// order placement for one user session.
package checkout

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/topzone/storefront/internal/domain/address"
	"github.com/topzone/storefront/internal/domain/cart"
	"github.com/topzone/storefront/internal/domain/discount"
	"github.com/topzone/storefront/internal/domain/order"
)

// Validation failures surfaced to the user. Each aborts the current action
// and returns the session to browsing; none of them is fatal.
var (
	ErrNoAddresses       = errors.New("add a shipping address before placing an order")
	ErrCartEmpty         = errors.New("your cart is empty")
	ErrNoAddressSelected = errors.New("select a shipping address")
	ErrNoPaymentMethod   = errors.New("select a payment method")
	ErrAddressNotOwned   = errors.New("the selected shipping address is not valid")
)

// Session carries the request context previously held in ambient session
// state: the authenticated user and the token keying session-scoped values.
type Session struct {
	UserID int64
	Token  string
}

// Service orchestrates the checkout workflow.
type Service struct {
	carts     cart.Repository
	addresses address.Repository
	codes     discount.Store
	validator discount.Checker
	orders    order.Writer
}

// NewService creates a checkout Service with the required dependencies.
func NewService(
	carts cart.Repository,
	addresses address.Repository,
	codes discount.Store,
	validator discount.Checker,
	orders order.Writer,
) *Service {
	return &Service{
		carts:     carts,
		addresses: addresses,
		codes:     codes,
		validator: validator,
		orders:    orders,
	}
}

// CartView is the current checkout state. Every total is re-derived from
// the live cart and the current code validity on each call, never cached.
type CartView struct {
	Items     []cart.Item
	Addresses []address.Address
	Subtotal  decimal.Decimal
	// AppliedCode is the pending session code when it is currently valid.
	AppliedCode     string
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
}

// View assembles the cart view for the session.
func (s *Service) View(ctx context.Context, sess Session) (*CartView, error) {
	view := &CartView{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.carts.List(gctx, sess.UserID)
		if err != nil {
			return errors.Wrap(err, "list cart")
		}
		view.Items = items
		return nil
	})
	g.Go(func() error {
		addrs, err := s.addresses.ListByUser(gctx, sess.UserID)
		if err != nil {
			return errors.Wrap(err, "list addresses")
		}
		view.Addresses = addrs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Subtotal = cart.Subtotal(view.Items)
	view.Total = view.Subtotal

	code := s.pendingCode(ctx, sess)
	if code == "" || !view.Subtotal.IsPositive() {
		return view, nil
	}

	if res := s.validator.Validate(ctx, code, view.Subtotal); res.Valid {
		view.AppliedCode = code
		view.DiscountPercent = res.Percent
		view.DiscountAmount = res.Amount(view.Subtotal)
		view.Total = view.Subtotal.Sub(view.DiscountAmount)
	}
	return view, nil
}

// UpdateQuantities applies the requested quantities to the session user's
// cart. Best-effort: a partial failure surfaces as an error, but updates
// already applied are kept.
func (s *Service) UpdateQuantities(ctx context.Context, sess Session, quantities map[int64]int) error {
	if len(quantities) == 0 {
		return nil
	}
	return s.carts.UpdateQuantities(ctx, sess.UserID, quantities)
}

// RemoveItem deletes one cart row owned by the session user.
func (s *Service) RemoveItem(ctx context.Context, sess Session, itemID int64) error {
	return s.carts.Remove(ctx, sess.UserID, itemID)
}

// ApplyCode stores the code as the session's pending discount. The code is
// not checked here; validity is established against the live subtotal on
// every view and again at order placement. An empty code clears the
// pending state.
func (s *Service) ApplyCode(ctx context.Context, sess Session, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return s.codes.ClearPending(ctx, sess.Token)
	}
	return s.codes.SetPending(ctx, sess.Token, code)
}

// PlaceOrderRequest is the user's order submission.
type PlaceOrderRequest struct {
	AddressID     int64
	PaymentMethod order.PaymentMethod
}

// PlacedOrder carries the identity of a freshly created order to the
// confirmation view.
type PlacedOrder struct {
	OrderID int64
	Total   decimal.Decimal
}

// PlaceOrder validates the submission and creates the order atomically.
// The pending discount code is re-validated against the current subtotal:
// a code accepted earlier may have expired or been exhausted since, in
// which case it silently grants no discount. On success the cart is empty,
// the pending code is cleared, and the new order id is returned.
func (s *Service) PlaceOrder(ctx context.Context, sess Session, req PlaceOrderRequest) (*PlacedOrder, error) {
	items, err := s.carts.List(ctx, sess.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart")
	}
	addrs, err := s.addresses.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "list addresses")
	}

	switch {
	case len(addrs) == 0:
		return nil, ErrNoAddresses
	case len(items) == 0:
		return nil, ErrCartEmpty
	case req.AddressID == 0:
		return nil, ErrNoAddressSelected
	case req.PaymentMethod == "":
		return nil, ErrNoPaymentMethod
	}
	if !ownsAddress(addrs, req.AddressID) {
		return nil, ErrAddressNotOwned
	}

	subtotal := cart.Subtotal(items)
	total := subtotal
	if code := s.pendingCode(ctx, sess); code != "" {
		if res := s.validator.Validate(ctx, code, subtotal); res.Valid {
			total = subtotal.Sub(res.Amount(subtotal))
		}
	}

	lines := make([]order.LineItem, len(items))
	for i, item := range items {
		lines[i] = order.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	orderID, err := s.orders.Create(ctx, &order.Order{
		UserID:        sess.UserID,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Status:        order.StatusPending,
		AddressID:     req.AddressID,
		Items:         lines,
	})
	if err != nil {
		if errors.Is(err, order.ErrCartConsumed) {
			// Lost the race against a concurrent submission; the winner
			// already emptied the cart.
			return nil, ErrCartEmpty
		}
		return nil, errors.Wrap(err, "create order")
	}

	if err := s.codes.ClearPending(ctx, sess.Token); err != nil {
		// The order exists; a stale pending code is re-validated on the
		// next view anyway.
		zctx.From(ctx).Warn("Clear pending discount code failed",
			zap.Int64("order_id", orderID), zap.Error(err))
	}

	return &PlacedOrder{OrderID: orderID, Total: total}, nil
}

// pendingCode reads the session's pending discount code, treating a store
// failure as no code.
func (s *Service) pendingCode(ctx context.Context, sess Session) string {
	code, err := s.codes.Pending(ctx, sess.Token)
	if err != nil {
		zctx.From(ctx).Warn("Pending discount code lookup failed", zap.Error(err))
		return ""
	}
	return code
}

func ownsAddress(addrs []address.Address, id int64) bool {
	for _, a := range addrs {
		if a.ID == id {
			return true
		}
	}
	return false
}
