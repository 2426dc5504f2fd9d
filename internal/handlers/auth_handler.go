package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quickbite/storefront/internal/cart"
	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
)

// AuthBackend is the slice of the upstream client used for sign-in and
// sign-up.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	backend  AuthBackend
	sessions *session.Manager
	cart     *cart.Store
	log      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(backend AuthBackend, sessions *session.Manager, cartStore *cart.Store, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		backend:  backend,
		sessions: sessions,
		cart:     cartStore,
		log:      log,
	}
}

// loginResponse is returned on successful sign-in.
type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/auth/login. It exchanges credentials for an
// upstream bearer token, wraps it in a storefront session token and
// restores the user's persisted cart snapshot.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required", h.log)
		return
	}

	ctx := r.Context()

	token, err := h.backend.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		h.log.Warn("login failed", "email", creds.Email, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	user, err := h.backend.Me(ctx, token)
	if err != nil {
		h.log.Error("failed to fetch user after login", "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	sess := session.Session{
		UserID:        user.ID,
		Email:         user.Email,
		UpstreamToken: token,
	}

	signed, err := h.sessions.Issue(sess)
	if err != nil {
		h.log.Error("failed to issue session token", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	if err := h.cart.Restore(&sess); err != nil {
		h.log.Warn("failed to restore cart snapshot", "user_id", user.ID, "error", err)
	}

	h.log.Info("user signed in", "user_id", user.ID)
	WriteJSON(w, http.StatusOK, loginResponse{Token: signed, User: user}, h.log)
}

// Register handles POST /api/auth/register by proxying to the backend.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if reg.Email == "" || reg.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required", h.log)
		return
	}

	user, err := h.backend.Register(r.Context(), reg)
	if err != nil {
		h.log.Warn("registration failed", "email", reg.Email, "error", err)
		status, message := upstreamStatus(err)
		WriteError(w, status, message, h.log)
		return
	}

	h.log.Info("user registered", "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, user, h.log)
}

// Logout handles POST /api/auth/logout. The cart is cleared and its
// snapshot discarded; unauthenticated sessions keep nothing.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := h.cart.Clear(sess); err != nil {
		h.log.Warn("failed to clear cart on logout", "error", err)
	}

	h.log.Info("user signed out", "user_id", sess.UserID)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Signed out"}, h.log)
}
