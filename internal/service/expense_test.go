package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/repository"
	"github.com/nmcalabroso/fintrack/internal/service"
)

type fakeExpenseRepo struct {
	GetByIDFunc            func(ctx context.Context, id int64) (*models.Expense, error)
	ListByOwnerFunc        func(ctx context.Context, ownerID int64) ([]models.Expense, error)
	ListByOwnerBetweenFunc func(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Expense, error)
	ListAllFunc            func(ctx context.Context) ([]models.Expense, error)
	CreateFunc             func(ctx context.Context, e *models.Expense) (int64, error)
	UpdateFunc             func(ctx context.Context, e *models.Expense) error
	DeleteFunc             func(ctx context.Context, id int64) error
}

func (f *fakeExpenseRepo) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	return f.GetByIDFunc(ctx, id)
}
func (f *fakeExpenseRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Expense, error) {
	return f.ListByOwnerFunc(ctx, ownerID)
}
func (f *fakeExpenseRepo) ListByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Expense, error) {
	return f.ListByOwnerBetweenFunc(ctx, ownerID, from, to)
}
func (f *fakeExpenseRepo) ListAll(ctx context.Context) ([]models.Expense, error) {
	return f.ListAllFunc(ctx)
}
func (f *fakeExpenseRepo) Create(ctx context.Context, e *models.Expense) (int64, error) {
	return f.CreateFunc(ctx, e)
}
func (f *fakeExpenseRepo) Update(ctx context.Context, e *models.Expense) error {
	return f.UpdateFunc(ctx, e)
}
func (f *fakeExpenseRepo) Delete(ctx context.Context, id int64) error {
	return f.DeleteFunc(ctx, id)
}

var (
	owner    = &models.Identity{ID: 3, Username: "pablo", Role: models.RoleUser}
	stranger = &models.Identity{ID: 8, Username: "maria", Role: models.RoleUser}
	admin    = &models.Identity{ID: models.AdminID, Username: service.AdminUsername, Role: models.RoleAdmin}
)

func storedExpense() *models.Expense {
	return &models.Expense{
		ID:        5,
		Tipo:      "food",
		Cantidad:  50,
		Fecha:     models.NewDate(2024, time.January, 15),
		UsuarioID: 3,
	}
}

func TestExpenseCreate_ForcesOwner(t *testing.T) {
	var created *models.Expense
	repo := &fakeExpenseRepo{
		CreateFunc: func(_ context.Context, e *models.Expense) (int64, error) {
			created = e
			return 5, nil
		},
	}
	svc := service.NewExpenseService(repo)

	expense, err := svc.Create(context.Background(), service.ExpenseInput{
		Tipo:     "food",
		Cantidad: 50,
	}, owner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UsuarioID != owner.ID {
		t.Errorf("UsuarioID = %d; want %d", created.UsuarioID, owner.ID)
	}
	if expense.ID != 5 {
		t.Errorf("ID = %d; want 5", expense.ID)
	}
	if expense.Fecha.IsZero() {
		t.Error("expected missing date to default to today")
	}
}

func TestExpenseGet_OwnershipMatrix(t *testing.T) {
	repo := &fakeExpenseRepo{
		GetByIDFunc: func(context.Context, int64) (*models.Expense, error) {
			return storedExpense(), nil
		},
	}
	svc := service.NewExpenseService(repo)

	tests := []struct {
		name     string
		identity *models.Identity
		wantErr  error
	}{
		{"owner succeeds", owner, nil},
		{"stranger forbidden", stranger, service.ErrForbidden},
		{"admin bypasses ownership", admin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(context.Background(), 5, tt.identity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseGet_NotFound(t *testing.T) {
	repo := &fakeExpenseRepo{
		GetByIDFunc: func(context.Context, int64) (*models.Expense, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := service.NewExpenseService(repo)

	_, err := svc.Get(context.Background(), 404, owner)
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}

func TestExpenseUpdate_Partial(t *testing.T) {
	var updated *models.Expense
	repo := &fakeExpenseRepo{
		GetByIDFunc: func(context.Context, int64) (*models.Expense, error) {
			return storedExpense(), nil
		},
		UpdateFunc: func(_ context.Context, e *models.Expense) error {
			updated = e
			return nil
		},
	}
	svc := service.NewExpenseService(repo)

	cantidad := 30.0
	_, err := svc.Update(context.Background(), 5, service.ExpenseUpdate{Cantidad: &cantidad}, owner)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Cantidad != 30 {
		t.Errorf("Cantidad = %v; want 30", updated.Cantidad)
	}
	// Fields absent from the partial update stay untouched.
	if updated.Tipo != "food" {
		t.Errorf("Tipo = %q; want food", updated.Tipo)
	}
	if !updated.Fecha.Equal(storedExpense().Fecha.Time) {
		t.Errorf("Fecha changed: %v", updated.Fecha)
	}
}

func TestExpenseUpdate_Forbidden(t *testing.T) {
	repo := &fakeExpenseRepo{
		GetByIDFunc: func(context.Context, int64) (*models.Expense, error) {
			return storedExpense(), nil
		},
	}
	svc := service.NewExpenseService(repo)

	_, err := svc.Update(context.Background(), 5, service.ExpenseUpdate{}, stranger)
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("error = %v; want ErrForbidden", err)
	}
}

func TestExpenseDelete_IdempotentOnMissing(t *testing.T) {
	repo := &fakeExpenseRepo{
		GetByIDFunc: func(context.Context, int64) (*models.Expense, error) {
			return nil, repository.ErrNotFound
		},
		DeleteFunc: func(context.Context, int64) error {
			t.Fatal("repo delete must not be called for a missing id")
			return nil
		},
	}
	svc := service.NewExpenseService(repo)

	if err := svc.Delete(context.Background(), 404, owner); err != nil {
		t.Fatalf("delete of missing id should succeed, got %v", err)
	}
}

func TestExpenseDelete_Ownership(t *testing.T) {
	deleted := false
	repo := &fakeExpenseRepo{
		GetByIDFunc: func(context.Context, int64) (*models.Expense, error) {
			return storedExpense(), nil
		},
		DeleteFunc: func(context.Context, int64) error {
			deleted = true
			return nil
		},
	}
	svc := service.NewExpenseService(repo)

	if err := svc.Delete(context.Background(), 5, stranger); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("stranger delete error = %v; want ErrForbidden", err)
	}
	if deleted {
		t.Fatal("stranger delete must not reach the repository")
	}

	if err := svc.Delete(context.Background(), 5, admin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if !deleted {
		t.Fatal("admin delete should reach the repository")
	}
}

func TestExpenseList_AdminSeesAll(t *testing.T) {
	all := []models.Expense{*storedExpense(), {ID: 6, Tipo: "rent", UsuarioID: 8}}
	repo := &fakeExpenseRepo{
		ListAllFunc: func(context.Context) ([]models.Expense, error) {
			return all, nil
		},
		ListByOwnerFunc: func(_ context.Context, ownerID int64) ([]models.Expense, error) {
			var own []models.Expense
			for _, e := range all {
				if e.UsuarioID == ownerID {
					own = append(own, e)
				}
			}
			return own, nil
		},
	}
	svc := service.NewExpenseService(repo)

	adminView, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("admin sees %d records; want 2", len(adminView))
	}

	ownerView, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("owner List: %v", err)
	}
	if len(ownerView) != 1 || ownerView[0].UsuarioID != owner.ID {
		t.Errorf("owner view = %+v; want only own records", ownerView)
	}
}
