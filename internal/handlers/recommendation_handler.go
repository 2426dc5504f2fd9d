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

// RecommendationBackend is the slice of the upstream clients used to
// assemble and forward a recommendation request.
type RecommendationBackend interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.Recommendation, error)
}

// RecommendationHandler proxies menu recommendations: it gathers the
// restaurant menu and the user's previous order items, then forwards
// them to the recommendation microservice.
type RecommendationHandler struct {
	backend RecommendationBackend
	log     *slog.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(backend RecommendationBackend, log *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		backend: backend,
		log:     log,
	}
}

// recommendationRequest is the body of the storefront endpoint.
type recommendationRequest struct {
	Preference string `json:"preference"`
}

// Recommend handles POST /api/restaurants/{restaurantId}/recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	restaurantID := chi.URLParam(r, "restaurantId")

	var req recommendationRequest
	if r.Body != nil {
		// An empty body means no preference.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	ctx := r.Context()

	restaurant, err := h.backend.GetRestaurant(ctx, restaurantID)
	if err != nil {
		h.log.Warn("failed to get restaurant for recommendations", "restaurant_id", restaurantID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	// Order history failures degrade to an empty history rather than
	// blocking the recommendation.
	previous := []string{}
	orders, err := h.backend.ListOrders(ctx, sess.UpstreamToken)
	if err != nil {
		h.log.Warn("failed to fetch order history for recommendations", "user_id", sess.UserID, "error", err)
	} else {
		previous = previousItemNames(orders)
	}

	rec, err := h.backend.Recommend(ctx, models.RecommendationRequest{
		RestaurantMenu:     restaurant.Menu,
		UserPreviousOrders: previous,
		UserPreference:     req.Preference,
	})
	if err != nil {
		h.log.Error("recommendation service failed", "restaurant_id", restaurantID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, rec, h.log)
}

// previousItemNames extracts the distinct item names from past orders,
// preserving first-seen order.
func previousItemNames(orders []models.Order) []string {
	seen := make(map[string]bool)
	names := []string{}

	for _, o := range orders {
		for _, line := range o.Items {
			if line.Name == "" || seen[line.Name] {
				continue
			}
			seen[line.Name] = true
			names = append(names, line.Name)
		}
	}
	return names
}
