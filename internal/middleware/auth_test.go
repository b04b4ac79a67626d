package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/service"
)

type fakeAuthenticator struct {
	identity *models.Identity
	err      error
	seen     string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.Identity, error) {
	f.seen = token
	return f.identity, f.err
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		auth         *fakeAuthenticator
		expectedCode int
	}{
		{
			name:         "missing header",
			header:       "",
			auth:         &fakeAuthenticator{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "not a bearer scheme",
			header:       "Basic dXNlcjpwdw==",
			auth:         &fakeAuthenticator{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "authenticator rejects",
			header:       "Bearer bad-token",
			auth:         &fakeAuthenticator{err: service.ErrUnauthorized},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "user store unreachable",
			header:       "Bearer good-token",
			auth:         &fakeAuthenticator{err: fmt.Errorf("authenticate lookup: %w", errors.New("dial tcp: connection refused"))},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "valid token",
			header:       "Bearer good-token",
			auth:         &fakeAuthenticator{identity: &models.Identity{ID: 7, Username: "pablo", Role: "user"}},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIdentity *models.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotIdentity = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/gastos/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			BearerAuth(tt.auth)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if tt.expectedCode == http.StatusOK {
				if tt.auth.seen != "good-token" {
					t.Errorf("authenticator saw %q; want stripped token", tt.auth.seen)
				}
				if gotIdentity == nil || gotIdentity.ID != 7 {
					t.Errorf("identity in context = %+v; want id 7", gotIdentity)
				}
			}
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	if identity := IdentityFromContext(context.Background()); identity != nil {
		t.Errorf("expected nil identity, got %+v", identity)
	}
}
