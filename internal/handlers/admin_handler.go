package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
)

// AdminBackend is the slice of the upstream client used by the admin
// dashboard. Admin authorization is enforced by the backend; the
// storefront only forwards the caller's bearer token.
type AdminBackend interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	CreateRestaurant(ctx context.Context, token string, r models.Restaurant) (*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, token, id string, r models.Restaurant) (*models.Restaurant, error)
	DeleteRestaurant(ctx context.Context, token, id string) error
	AddMenuItem(ctx context.Context, token, restaurantName string, item models.MenuItem) (*models.Restaurant, error)
	DeleteMenuItem(ctx context.Context, token, restaurantName, itemName string) error
}

// AdminHandler proxies the dashboard's restaurant and menu CRUD.
type AdminHandler struct {
	backend AdminBackend
	log     *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(backend AdminBackend, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		backend: backend,
		log:     log,
	}
}

// CreateRestaurant handles POST /api/admin/restaurants
func (h *AdminHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var restaurant models.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if restaurant.Name == "" {
		WriteError(w, http.StatusBadRequest, "Restaurant name is required", h.log)
		return
	}

	created, err := h.backend.CreateRestaurant(r.Context(), sess.UpstreamToken, restaurant)
	if err != nil {
		h.log.Warn("failed to create restaurant", "name", restaurant.Name, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	h.log.Info("restaurant created", "restaurant_id", created.ID, "user_id", sess.UserID)
	WriteJSON(w, http.StatusCreated, created, h.log)
}

// UpdateRestaurant handles PUT /api/admin/restaurants/{restaurantId}
func (h *AdminHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	restaurantID := chi.URLParam(r, "restaurantId")

	var restaurant models.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	updated, err := h.backend.UpdateRestaurant(r.Context(), sess.UpstreamToken, restaurantID, restaurant)
	if err != nil {
		h.log.Warn("failed to update restaurant", "restaurant_id", restaurantID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, updated, h.log)
}

// DeleteRestaurant handles DELETE /api/admin/restaurants/{restaurantId}
func (h *AdminHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	restaurantID := chi.URLParam(r, "restaurantId")

	if err := h.backend.DeleteRestaurant(r.Context(), sess.UpstreamToken, restaurantID); err != nil {
		h.log.Warn("failed to delete restaurant", "restaurant_id", restaurantID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	h.log.Info("restaurant deleted", "restaurant_id", restaurantID, "user_id", sess.UserID)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Restaurant deleted"}, h.log)
}

// AddMenuItem handles POST /api/admin/restaurants/{restaurantId}/menu.
// The backend keys menu mutations by restaurant name, so the id is
// resolved first.
func (h *AdminHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	restaurantID := chi.URLParam(r, "restaurantId")

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if item.Name == "" {
		WriteError(w, http.StatusBadRequest, "Menu item name is required", h.log)
		return
	}
	if item.Price < 0 {
		WriteError(w, http.StatusBadRequest, "Menu item price must not be negative", h.log)
		return
	}

	restaurant, err := h.backend.GetRestaurant(r.Context(), restaurantID)
	if err != nil {
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	updated, err := h.backend.AddMenuItem(r.Context(), sess.UpstreamToken, restaurant.Name, item)
	if err != nil {
		h.log.Warn("failed to add menu item", "restaurant_id", restaurantID, "item", item.Name, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	h.log.Info("menu item added", "restaurant_id", restaurantID, "item", item.Name)
	WriteJSON(w, http.StatusCreated, updated, h.log)
}

// DeleteMenuItem handles DELETE /api/admin/restaurants/{restaurantId}/menu/{itemName}
func (h *AdminHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	restaurantID := chi.URLParam(r, "restaurantId")
	itemName := chi.URLParam(r, "itemName")

	restaurant, err := h.backend.GetRestaurant(r.Context(), restaurantID)
	if err != nil {
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	if err := h.backend.DeleteMenuItem(r.Context(), sess.UpstreamToken, restaurant.Name, itemName); err != nil {
		h.log.Warn("failed to delete menu item", "restaurant_id", restaurantID, "item", itemName, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	h.log.Info("menu item deleted", "restaurant_id", restaurantID, "item", itemName)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted"}, h.log)
}
