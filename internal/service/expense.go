package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/repository"
)

// ExpenseRepository defines the persistence operations needed by the
// expense service and the analytics service.
type ExpenseRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Expense, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Expense, error)
	ListByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Expense, error)
	ListAll(ctx context.Context) ([]models.Expense, error)
	Create(ctx context.Context, e *models.Expense) (int64, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id int64) error
}

// ExpenseInput carries the fields accepted when creating an expense.
// Any owner supplied by the client is ignored; ownership is always the
// authenticated identity.
type ExpenseInput struct {
	Tipo        string       `json:"tipo_gasto"`
	Cantidad    float64      `json:"cantidad_gasto"`
	Fecha       *models.Date `json:"fecha_gasto"`
	Descripcion string       `json:"descripcion"`
}

// ExpenseUpdate carries a partial update. Nil fields are left untouched.
type ExpenseUpdate struct {
	Tipo        *string      `json:"tipo_gasto"`
	Cantidad    *float64     `json:"cantidad_gasto"`
	Fecha       *models.Date `json:"fecha_gasto"`
	Descripcion *string      `json:"descripcion"`
}

// ExpenseService implements expense CRUD with per-owner isolation.
type ExpenseService struct {
	repo ExpenseRepository
}

// NewExpenseService constructs an ExpenseService with the provided
// repository.
func NewExpenseService(repo ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

// List returns the identity's own expenses. Admins see every row.
func (s *ExpenseService) List(ctx context.Context, identity *models.Identity) ([]models.Expense, error) {
	if identity.IsAdmin() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByOwner(ctx, identity.ID)
}

// Get fetches one expense. ErrNotFound when the id does not exist,
// ErrForbidden when it belongs to someone else and the caller is not
// an admin.
func (s *ExpenseService) Get(ctx context.Context, id int64, identity *models.Identity) (*models.Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if expense.UsuarioID != identity.ID && !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	return expense, nil
}

// Create stores a new expense owned by the identity. A missing date
// defaults to today.
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput, identity *models.Identity) (*models.Expense, error) {
	fecha := models.Today()
	if in.Fecha != nil && !in.Fecha.IsZero() {
		fecha = *in.Fecha
	}

	expense := &models.Expense{
		Tipo:        in.Tipo,
		Cantidad:    in.Cantidad,
		Fecha:       fecha,
		Descripcion: in.Descripcion,
		UsuarioID:   identity.ID,
	}

	id, err := s.repo.Create(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	expense.ID = id
	return expense, nil
}

// Update applies the non-nil fields of the partial update to the
// expense, subject to the same ownership check as Get.
func (s *ExpenseService) Update(ctx context.Context, id int64, in ExpenseUpdate, identity *models.Identity) (*models.Expense, error) {
	expense, err := s.Get(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	if in.Tipo != nil {
		expense.Tipo = *in.Tipo
	}
	if in.Cantidad != nil {
		expense.Cantidad = *in.Cantidad
	}
	if in.Fecha != nil {
		expense.Fecha = *in.Fecha
	}
	if in.Descripcion != nil {
		expense.Descripcion = *in.Descripcion
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

// Delete removes an expense after the ownership check. A missing id is
// a successful no-op so retrying clients learn nothing about existence.
func (s *ExpenseService) Delete(ctx context.Context, id int64, identity *models.Identity) error {
	expense, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if expense.UsuarioID != identity.ID && !identity.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
