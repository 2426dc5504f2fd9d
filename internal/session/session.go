package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session expired")
)

// Session identifies an authenticated storefront user. It carries the
// upstream bearer token so backend calls can be made on the user's
// behalf without any ambient global state.
type Session struct {
	UserID        string
	Email         string
	UpstreamToken string
}

type sessionClaims struct {
	Email         string `json:"email"`
	UpstreamToken string `json:"upstream_token"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed storefront session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager signing tokens with the given
// secret. Tokens expire after ttl.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given session.
func (m *Manager) Issue(s Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:         s.Email,
		UpstreamToken: s.UpstreamToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a signed token and reconstructs the session.
func (m *Manager) Verify(tokenString string) (*Session, error) {
	var claims sessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Session{
		UserID:        claims.Subject,
		Email:         claims.Email,
		UpstreamToken: claims.UpstreamToken,
	}, nil
}

type contextKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session from the context, or nil when the
// request is unauthenticated.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
