package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
)

// OrderBackend is the slice of the upstream client used for order
// history.
type OrderBackend interface {
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	GetOrder(ctx context.Context, token, id string) (*models.Order, error)
}

// OrderHandler serves the authenticated user's order history.
type OrderHandler struct {
	backend OrderBackend
	log     *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(backend OrderBackend, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		backend: backend,
		log:     log,
	}
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	orders, err := h.backend.ListOrders(r.Context(), sess.UpstreamToken)
	if err != nil {
		h.log.Error("failed to list orders", "user_id", sess.UserID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	WriteJSON(w, http.StatusOK, orders, h.log)
}

// Get handles GET /api/orders/{orderId}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	orderID := chi.URLParam(r, "orderId")

	order, err := h.backend.GetOrder(r.Context(), sess.UpstreamToken, orderID)
	if err != nil {
		h.log.Warn("failed to get order", "order_id", orderID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}
