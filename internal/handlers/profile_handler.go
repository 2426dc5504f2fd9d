package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
)

// ProfileBackend is the slice of the upstream client used for profile
// management.
type ProfileBackend interface {
	Me(ctx context.Context, token string) (*models.User, error)
	UpdateMe(ctx context.Context, token string, update models.ProfileUpdate) (*models.User, error)
}

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	backend ProfileBackend
	log     *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(backend ProfileBackend, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		backend: backend,
		log:     log,
	}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	user, err := h.backend.Me(r.Context(), sess.UpstreamToken)
	if err != nil {
		h.log.Error("failed to fetch profile", "user_id", sess.UserID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, user, h.log)
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	user, err := h.backend.UpdateMe(r.Context(), sess.UpstreamToken, update)
	if err != nil {
		h.log.Error("failed to update profile", "user_id", sess.UserID, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	h.log.Info("profile updated", "user_id", sess.UserID)
	WriteJSON(w, http.StatusOK, user, h.log)
}
