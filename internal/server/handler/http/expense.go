package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nmcalabroso/fintrack/internal/middleware"
	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/service"
)

// ExpenseService defines the expense operations required by the HTTP
// handlers.
type ExpenseService interface {
	List(ctx context.Context, identity *models.Identity) ([]models.Expense, error)
	Get(ctx context.Context, id int64, identity *models.Identity) (*models.Expense, error)
	Create(ctx context.Context, in service.ExpenseInput, identity *models.Identity) (*models.Expense, error)
	Update(ctx context.Context, id int64, in service.ExpenseUpdate, identity *models.Identity) (*models.Expense, error)
	Delete(ctx context.Context, id int64, identity *models.Identity) error
}

// ExpenseHandler handles expense CRUD requests under /gastos.
type ExpenseHandler struct {
	// ExpenseService performs the underlying expense operations.
	ExpenseService ExpenseService
}

// identityOr401 pulls the identity installed by the auth middleware.
func identityOr401(w http.ResponseWriter, r *http.Request) *models.Identity {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	}
	return identity
}

// idParam parses the {id} URL parameter.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// List returns the caller's expenses; all expenses for admins.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}

	expenses, err := h.ExpenseService.List(r.Context(), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Get returns one expense by id, subject to the ownership check.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	expense, err := h.ExpenseService.Get(r.Context(), id, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Create stores a new expense owned by the caller. Responds 201.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}

	var in service.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Tipo == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	expense, err := h.ExpenseService.Create(r.Context(), in, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// Update applies a partial update to one expense.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in service.ExpenseUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	expense, err := h.ExpenseService.Update(r.Context(), id, in, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Delete removes one expense. Missing ids still respond 204.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.ExpenseService.Delete(r.Context(), id, identity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
