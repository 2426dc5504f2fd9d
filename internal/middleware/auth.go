package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/quickbite/storefront/internal/session"
)

// SessionAuth validates the storefront bearer session token and stores
// the resulting session in the request context. Unauthenticated
// requests get a 401 with a message the UI surfaces as a sign-in
// prompt; no state is mutated.
func SessionAuth(manager *session.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "Please sign in to continue")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				writeUnauthorized(w, "Please sign in to continue")
				return
			}

			sess, err := manager.Verify(token)
			if err != nil {
				if errors.Is(err, session.ErrExpiredToken) {
					writeUnauthorized(w, "Your session has expired, please sign in again")
					return
				}
				writeUnauthorized(w, "Please sign in to continue")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
