package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/topzone/storefront/internal/domain/checkout"
	"github.com/topzone/storefront/internal/domain/order"
)

type placeOrderRequest struct {
	AddressID     int64  `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
}

type placeOrderResponse struct {
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
}

// PlaceOrder submits the cart as an order. On success it responds 201 with
// the new order identity for the confirmation view.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var method order.PaymentMethod
	if req.PaymentMethod != "" {
		parsed, ok := order.ParsePaymentMethod(req.PaymentMethod)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown payment method "+req.PaymentMethod)
			return
		}
		method = parsed
	}

	placed, err := h.checkout.PlaceOrder(r.Context(), sessionFrom(r.Context()), checkout.PlaceOrderRequest{
		AddressID:     req.AddressID,
		PaymentMethod: method,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, placeOrderResponse{
		OrderID: placed.OrderID,
		Total:   placed.Total.InexactFloat64(),
	})
}

// writeOrderError maps checkout failures to HTTP responses. Validation
// failures carry their user-facing message; persistence failures are
// logged and reported generically.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	for _, validation := range []error{
		checkout.ErrNoAddresses,
		checkout.ErrCartEmpty,
		checkout.ErrNoAddressSelected,
		checkout.ErrNoPaymentMethod,
		checkout.ErrAddressNotOwned,
	} {
		if errors.Is(err, validation) {
			writeError(w, http.StatusUnprocessableEntity, validation.Error())
			return
		}
	}

	var stepErr *order.StepError
	if errors.As(err, &stepErr) {
		zctx.From(r.Context()).Error("Order creation failed",
			zap.String("step", string(stepErr.Step)), zap.Error(stepErr))
	} else {
		zctx.From(r.Context()).Error("Order placement failed", zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, "could not place your order")
}
