// Package handler exposes the storefront API over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/topzone/storefront/internal/domain/auth"
	"github.com/topzone/storefront/internal/domain/checkout"
	"github.com/topzone/storefront/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image filenames in product
	// responses. When empty, filenames are returned as stored.
	ImageBaseURL string
}

// Handler routes storefront API requests to the domain services.
type Handler struct {
	products     product.Repository
	checkout     *checkout.Service
	sessions     auth.SessionResolver
	imageBaseURL string
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	cfg Config,
	products product.Repository,
	checkoutSvc *checkout.Service,
	sessions auth.SessionResolver,
) *Handler {
	return &Handler{
		products:     products,
		checkout:     checkoutSvc,
		sessions:     sessions,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes builds the API router. Cart and order routes require a resolvable
// session token; the catalog is public.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)

		r.Group(func(r chi.Router) {
			r.Use(h.withSession)
			r.Get("/cart", h.ViewCart)
			r.Put("/cart/quantities", h.UpdateQuantities)
			r.Delete("/cart/items/{itemID}", h.RemoveItem)
			r.Post("/cart/discount-code", h.ApplyDiscountCode)
			r.Post("/orders", h.PlaceOrder)
		})
	})
	return r
}

// sessionKey carries the resolved checkout.Session through the request
// context.
type sessionKey struct{}

func sessionFrom(ctx context.Context) checkout.Session {
	sess, _ := ctx.Value(sessionKey{}).(checkout.Session)
	return sess
}

// withSession authenticates the request via the X-Session-Token header,
// resolving it to a user through the external session layer.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-Session-Token"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		userID, err := h.sessions.ResolveUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownSession) {
				writeError(w, http.StatusUnauthorized, "unknown session token")
				return
			}
			zctx.From(r.Context()).Error("Session resolution failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sess := checkout.Session{UserID: userID, Token: token}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// messageResponse acknowledges cart edits.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
