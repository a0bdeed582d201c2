package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/topzone/storefront/internal/domain/product"
)

type productResponse struct {
	ID          int64   `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	SalePercent int     `json:"sale_percent"`
	SalePrice   float64 `json:"sale_price"`
	Capacity    string  `json:"capacity,omitempty"`
	Color       string  `json:"color,omitempty"`
	Line        string  `json:"line,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
}

// ListProducts serves the catalog listing with optional category and line
// filters and a whitelisted sort order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := product.ListParams{
		Category: q.Get("category"),
		Line:     q.Get("line"),
		Sort:     product.ParseSort(q.Get("sort")),
	}

	products, err := h.products.List(r.Context(), params)
	if err != nil {
		zctx.From(r.Context()).Error("Catalog listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = h.toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		SalePercent: p.SalePercent,
		SalePrice:   p.SalePrice.InexactFloat64(),
		Capacity:    p.Capacity,
		Color:       p.Color,
		Line:        p.Line,
		Category:    p.Category,
		Image:       h.imageURL(p.Image),
	}
}

func (h *Handler) imageURL(filename string) string {
	if filename == "" || h.imageBaseURL == "" {
		return filename
	}
	return h.imageBaseURL + "/" + filename
}
