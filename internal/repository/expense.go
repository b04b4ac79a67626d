package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nmcalabroso/fintrack/internal/models"
)

// PostgresExpenseRepository implements expense persistence against PostgreSQL.
type PostgresExpenseRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresExpenseRepository creates a PostgresExpenseRepository using the
// provided *sql.DB.
func NewPostgresExpenseRepository(db *sql.DB) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{DB: db}
}

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	var (
		e     models.Expense
		fecha time.Time
		desc  sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Tipo, &e.Cantidad, &fecha, &desc, &e.UsuarioID); err != nil {
		return nil, err
	}
	e.Fecha = models.DateOf(fecha)
	e.Descripcion = desc.String
	return &e, nil
}

// GetByID fetches a single expense by id regardless of owner.
// Returns ErrNotFound if the row does not exist.
func (r *PostgresExpenseRepository) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, tipo_gasto, cantidad_gasto, fecha_gasto, descripcion, usuario_id FROM gastos WHERE id = $1
	`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

// ListByOwner fetches all expenses belonging to the given user.
func (r *PostgresExpenseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tipo_gasto, cantidad_gasto, fecha_gasto, descripcion, usuario_id FROM gastos WHERE usuario_id = $1 ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	return collectExpenses(rows)
}

// ListByOwnerBetween fetches the owner's expenses with a date in [from, to).
func (r *PostgresExpenseRepository) ListByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tipo_gasto, cantidad_gasto, fecha_gasto, descripcion, usuario_id FROM gastos WHERE usuario_id = $1 AND fecha_gasto >= $2 AND fecha_gasto < $3 ORDER BY id
	`, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ListByOwnerBetween: %w", err)
	}
	return collectExpenses(rows)
}

// ListAll fetches every expense row. Used for the admin list view.
func (r *PostgresExpenseRepository) ListAll(ctx context.Context) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tipo_gasto, cantidad_gasto, fecha_gasto, descripcion, usuario_id FROM gastos ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return collectExpenses(rows)
}

// Create inserts a new expense and returns its assigned id.
func (r *PostgresExpenseRepository) Create(ctx context.Context, e *models.Expense) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO gastos (tipo_gasto, cantidad_gasto, fecha_gasto, descripcion, usuario_id) VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, e.Tipo, e.Cantidad, e.Fecha.Time, e.Descripcion, e.UsuarioID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}
	return id, nil
}

// Update rewrites all mutable columns of the expense with the given id.
func (r *PostgresExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE gastos SET tipo_gasto = $1, cantidad_gasto = $2, fecha_gasto = $3, descripcion = $4 WHERE id = $5
	`, e.Tipo, e.Cantidad, e.Fecha.Time, e.Descripcion, e.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete removes the expense with the given id. Deleting a missing id
// is not an error.
func (r *PostgresExpenseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM gastos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func collectExpenses(rows *sql.Rows) ([]models.Expense, error) {
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}
