// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/service"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Authenticator resolves a bearer token to an authenticated identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, resolves it to an
// Identity through the Authenticator, and stores the Identity in the
// request context for downstream handlers. Requests without a valid
// token are rejected with 401. Other Authenticate failures, such as an
// unreachable user store, surface as 500.
func BearerAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			identity, err := auth.Authenticate(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if errors.Is(err, service.ErrUnauthorized) {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the
// request context. Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(identityKey).(*models.Identity); ok {
		return identity
	}
	return nil
}

// WithIdentity returns a copy of ctx carrying the identity. Intended for
// tests exercising handlers below the auth middleware.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
