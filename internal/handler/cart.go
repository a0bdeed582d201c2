package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

type cartItemResponse struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Capacity  string  `json:"capacity,omitempty"`
	Color     string  `json:"color,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type addressResponse struct {
	ID        int64  `json:"id"`
	Recipient string `json:"recipient"`
	Line      string `json:"line"`
	Phone     string `json:"phone,omitempty"`
}

type cartViewResponse struct {
	Items           []cartItemResponse `json:"items"`
	Addresses       []addressResponse  `json:"addresses"`
	Subtotal        float64            `json:"subtotal"`
	AppliedCode     string             `json:"applied_code,omitempty"`
	DiscountPercent float64            `json:"discount_percent,omitempty"`
	DiscountAmount  float64            `json:"discount_amount,omitempty"`
	Total           float64            `json:"total"`
}

// ViewCart renders the current checkout state. Totals are recomputed from
// the live cart and code validity on every call.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkout.View(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		zctx.From(r.Context()).Error("Cart view failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := cartViewResponse{
		Items:           make([]cartItemResponse, len(view.Items)),
		Addresses:       make([]addressResponse, len(view.Addresses)),
		Subtotal:        view.Subtotal.InexactFloat64(),
		AppliedCode:     view.AppliedCode,
		DiscountPercent: view.DiscountPercent.InexactFloat64(),
		DiscountAmount:  view.DiscountAmount.InexactFloat64(),
		Total:           view.Total.InexactFloat64(),
	}
	for i, item := range view.Items {
		resp.Items[i] = cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Capacity:  item.Capacity,
			Color:     item.Color,
			UnitPrice: item.UnitPrice.InexactFloat64(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal.InexactFloat64(),
		}
	}
	for i, a := range view.Addresses {
		resp.Addresses[i] = addressResponse{
			ID:        a.ID,
			Recipient: a.Recipient,
			Line:      a.Line,
			Phone:     a.Phone,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateQuantitiesRequest struct {
	Quantities map[string]int `json:"quantities"`
}

// UpdateQuantities updates cart line quantities in place.
func (h *Handler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
	var req updateQuantitiesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Quantities) == 0 {
		writeError(w, http.StatusBadRequest, "no quantities provided")
		return
	}

	quantities := make(map[int64]int, len(req.Quantities))
	for key, quantity := range req.Quantities {
		itemID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cart item id "+key)
			return
		}
		quantities[itemID] = quantity
	}

	if err := h.checkout.UpdateQuantities(r.Context(), sessionFrom(r.Context()), quantities); err != nil {
		zctx.From(r.Context()).Error("Quantity update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not update quantities")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "quantities updated"})
}

// RemoveItem deletes one cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	if err := h.checkout.RemoveItem(r.Context(), sessionFrom(r.Context()), itemID); err != nil {
		zctx.From(r.Context()).Error("Cart item removal failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not remove item")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "item removed from cart"})
}

type applyCodeRequest struct {
	Code string `json:"code"`
}

// ApplyDiscountCode stores the code as the session's pending discount.
// Whether it actually grants a discount is decided against the live
// subtotal on view and at order placement.
func (h *Handler) ApplyDiscountCode(w http.ResponseWriter, r *http.Request) {
	var req applyCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.checkout.ApplyCode(r.Context(), sessionFrom(r.Context()), req.Code); err != nil {
		zctx.From(r.Context()).Error("Discount code apply failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not apply discount code")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "discount code applied"})
}
