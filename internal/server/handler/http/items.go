package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nmcalabroso/fintrack/internal/models"
)

// ItemService defines the user management operations required by the
// items endpoints.
type ItemService interface {
	// Register creates a regular user with a hashed password.
	Register(ctx context.Context, nombre, correo, password string) (*models.User, error)
	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ItemHandler handles user listing and registration.
type ItemHandler struct {
	// ItemService performs the underlying user operations.
	ItemService ItemService
}

// ItemRequest is the JSON payload for creating a user. The role is
// system-controlled and not accepted from the client.
type ItemRequest struct {
	Nombre     string `json:"nombre"`
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

// ItemResponse is a user as exposed over the wire. The password hash is
// never included.
type ItemResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
	Rol    string `json:"rol"`
}

// List returns all users without their password hashes.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.ItemService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]ItemResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ItemResponse{ID: u.ID, Nombre: u.Nombre, Correo: u.Correo, Rol: u.Rol})
	}
	writeJSON(w, http.StatusOK, out)
}

// Create registers a new user. Responds 201 with the created record.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Nombre == "" || req.Contrasena == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.ItemService.Register(r.Context(), req.Nombre, req.Correo, req.Contrasena)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ItemResponse{
		ID:     user.ID,
		Nombre: user.Nombre,
		Correo: user.Correo,
		Rol:    user.Rol,
	})
}
