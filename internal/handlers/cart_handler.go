package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/storefront/internal/cart"
	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
)

// CartHandler exposes the session cart over HTTP.
type CartHandler struct {
	cart *cart.Store
	log  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartStore *cart.Store, log *slog.Logger) *CartHandler {
	return &CartHandler{
		cart: cartStore,
		log:  log,
	}
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	WriteJSON(w, http.StatusOK, h.cart.View(sess), h.log)
}

// AddItem handles POST /api/cart/items. The quantity on the line item
// defaults to 1 when omitted.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var item models.CartLineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if item.ID == "" || item.Name == "" {
		WriteError(w, http.StatusBadRequest, "Item id and name are required", h.log)
		return
	}
	if item.Price < 0 {
		WriteError(w, http.StatusBadRequest, "Item price must not be negative", h.log)
		return
	}

	if err := h.cart.AddItem(sess, item, item.Quantity); err != nil {
		h.writeCartError(w, err)
		return
	}

	h.log.Info("item added to cart", "item_id", item.ID, "user_id", sess.UserID)
	WriteJSON(w, http.StatusCreated, h.cart.View(sess), h.log)
}

// updateQuantityRequest is the body of a quantity update.
type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/{itemId}. A quantity of zero
// or below removes the line item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.cart.UpdateQuantity(sess, itemID, req.Quantity); err != nil {
		h.writeCartError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, h.cart.View(sess), h.log)
}

// RemoveItem handles DELETE /api/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	itemID := chi.URLParam(r, "itemId")

	if err := h.cart.RemoveItem(sess, itemID); err != nil {
		h.writeCartError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, h.cart.View(sess), h.log)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := h.cart.Clear(sess); err != nil {
		h.writeCartError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, h.cart.View(sess), h.log)
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrNotAuthenticated) {
		WriteError(w, http.StatusUnauthorized, err.Error(), h.log)
		return
	}
	h.log.Error("cart operation failed", "error", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
}
