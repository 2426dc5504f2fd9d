package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/storefront/internal/models"
)

// RestaurantBackend is the slice of the upstream client used for
// browsing.
type RestaurantBackend interface {
	ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

// RestaurantHandler serves restaurant browsing.
type RestaurantHandler struct {
	backend RestaurantBackend
	log     *slog.Logger
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(backend RestaurantBackend, log *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		backend: backend,
		log:     log,
	}
}

// List handles GET /api/restaurants with optional cuisine and
// min_rating filters.
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.RestaurantFilter{
		Cuisine: r.URL.Query().Get("cuisine"),
	}

	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			WriteError(w, http.StatusBadRequest, "min_rating must be a number between 0 and 5", h.log)
			return
		}
		filter.MinRating = rating
	}

	restaurants, err := h.backend.ListRestaurants(r.Context(), filter)
	if err != nil {
		h.log.Error("failed to list restaurants", "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	WriteJSON(w, http.StatusOK, restaurants, h.log)
}

// Get handles GET /api/restaurants/{restaurantId}
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")
	if restaurantID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	restaurant, err := h.backend.GetRestaurant(r.Context(), restaurantID)
	if err != nil {
		h.log.Warn("failed to get restaurant", "restaurant_id", restaurantID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, restaurant, h.log)
}
