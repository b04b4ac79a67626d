package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/repository"
)

// InvestmentRepository defines the persistence operations needed by the
// investment service and the analytics service.
type InvestmentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Investment, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Investment, error)
	ListByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Investment, error)
	ListAll(ctx context.Context) ([]models.Investment, error)
	Create(ctx context.Context, inv *models.Investment) (int64, error)
	Update(ctx context.Context, inv *models.Investment) error
	Delete(ctx context.Context, id int64) error
}

// InvestmentInput carries the fields accepted when creating an investment.
type InvestmentInput struct {
	Tipo        string       `json:"tipo_inversion"`
	Cantidad    float64      `json:"cantidad_inversion"`
	Fecha       *models.Date `json:"fecha_inversion"`
	Descripcion string       `json:"descripcion"`
}

// InvestmentUpdate carries a partial update. Nil fields are left untouched.
type InvestmentUpdate struct {
	Tipo        *string      `json:"tipo_inversion"`
	Cantidad    *float64     `json:"cantidad_inversion"`
	Fecha       *models.Date `json:"fecha_inversion"`
	Descripcion *string      `json:"descripcion"`
}

// InvestmentService implements investment CRUD with per-owner isolation.
// The rules are identical to ExpenseService.
type InvestmentService struct {
	repo InvestmentRepository
}

// NewInvestmentService constructs an InvestmentService with the provided
// repository.
func NewInvestmentService(repo InvestmentRepository) *InvestmentService {
	return &InvestmentService{repo: repo}
}

// List returns the identity's own investments. Admins see every row.
func (s *InvestmentService) List(ctx context.Context, identity *models.Identity) ([]models.Investment, error) {
	if identity.IsAdmin() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByOwner(ctx, identity.ID)
}

// Get fetches one investment, applying the ownership check.
func (s *InvestmentService) Get(ctx context.Context, id int64, identity *models.Identity) (*models.Investment, error) {
	investment, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get investment: %w", err)
	}
	if investment.UsuarioID != identity.ID && !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	return investment, nil
}

// Create stores a new investment owned by the identity. A missing date
// defaults to today.
func (s *InvestmentService) Create(ctx context.Context, in InvestmentInput, identity *models.Identity) (*models.Investment, error) {
	fecha := models.Today()
	if in.Fecha != nil && !in.Fecha.IsZero() {
		fecha = *in.Fecha
	}

	investment := &models.Investment{
		Tipo:        in.Tipo,
		Cantidad:    in.Cantidad,
		Fecha:       fecha,
		Descripcion: in.Descripcion,
		UsuarioID:   identity.ID,
	}

	id, err := s.repo.Create(ctx, investment)
	if err != nil {
		return nil, fmt.Errorf("create investment: %w", err)
	}
	investment.ID = id
	return investment, nil
}

// Update applies the non-nil fields of the partial update, subject to
// the same ownership check as Get.
func (s *InvestmentService) Update(ctx context.Context, id int64, in InvestmentUpdate, identity *models.Identity) (*models.Investment, error) {
	investment, err := s.Get(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	if in.Tipo != nil {
		investment.Tipo = *in.Tipo
	}
	if in.Cantidad != nil {
		investment.Cantidad = *in.Cantidad
	}
	if in.Fecha != nil {
		investment.Fecha = *in.Fecha
	}
	if in.Descripcion != nil {
		investment.Descripcion = *in.Descripcion
	}

	if err := s.repo.Update(ctx, investment); err != nil {
		return nil, fmt.Errorf("update investment: %w", err)
	}
	return investment, nil
}

// Delete removes an investment after the ownership check. A missing id
// is a successful no-op.
func (s *InvestmentService) Delete(ctx context.Context, id int64, identity *models.Identity) error {
	investment, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if investment.UsuarioID != identity.ID && !identity.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
