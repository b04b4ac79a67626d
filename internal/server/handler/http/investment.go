package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/service"
)

// InvestmentService defines the investment operations required by the
// HTTP handlers.
type InvestmentService interface {
	List(ctx context.Context, identity *models.Identity) ([]models.Investment, error)
	Get(ctx context.Context, id int64, identity *models.Identity) (*models.Investment, error)
	Create(ctx context.Context, in service.InvestmentInput, identity *models.Identity) (*models.Investment, error)
	Update(ctx context.Context, id int64, in service.InvestmentUpdate, identity *models.Identity) (*models.Investment, error)
	Delete(ctx context.Context, id int64, identity *models.Identity) error
}

// InvestmentHandler handles investment CRUD requests under /inversiones.
type InvestmentHandler struct {
	// InvestmentService performs the underlying investment operations.
	InvestmentService InvestmentService
}

// List returns the caller's investments; all investments for admins.
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}

	investments, err := h.InvestmentService.List(r.Context(), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if investments == nil {
		investments = []models.Investment{}
	}
	writeJSON(w, http.StatusOK, investments)
}

// Get returns one investment by id, subject to the ownership check.
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	investment, err := h.InvestmentService.Get(r.Context(), id, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, investment)
}

// Create stores a new investment owned by the caller. Responds 201.
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}

	var in service.InvestmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Tipo == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	investment, err := h.InvestmentService.Create(r.Context(), in, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, investment)
}

// Update applies a partial update to one investment.
func (h *InvestmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in service.InvestmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	investment, err := h.InvestmentService.Update(r.Context(), id, in, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, investment)
}

// Delete removes one investment. Missing ids still respond 204.
func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.InvestmentService.Delete(r.Context(), id, identity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
