// Package http provides HTTP handlers for the finance tracking API:
// login, user profile, admin dashboard, items, expenses, investments
// and analytics.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nmcalabroso/fintrack/internal/middleware"
	"github.com/nmcalabroso/fintrack/internal/models"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Login validates credentials and returns a signed token.
	Login(ctx context.Context, username, password string) (string, error)
	// RequireAdmin fails unless the identity carries the admin role.
	RequireAdmin(identity *models.Identity) error
}

// AuthHandler handles login, profile and admin dashboard requests.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// TokenResponse is the JSON payload returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token handles login requests. Credentials arrive either as an OAuth2
// password form or as a JSON body with "username" and "password".
// Unknown users and wrong passwords produce the same 400 response.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	accessToken, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: accessToken, TokenType: "bearer"})
}

// Profile returns the authenticated identity.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

// AdminDashboard returns a greeting payload, admin role required.
func (h *AuthHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	if err := h.AuthService.RequireAdmin(identity); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Bienvenido al panel de administración, %s", identity.Username),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
