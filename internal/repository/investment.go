package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nmcalabroso/fintrack/internal/models"
)

// PostgresInvestmentRepository implements investment persistence against
// PostgreSQL. It mirrors PostgresExpenseRepository over the inversiones table.
type PostgresInvestmentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresInvestmentRepository creates a PostgresInvestmentRepository
// using the provided *sql.DB.
func NewPostgresInvestmentRepository(db *sql.DB) *PostgresInvestmentRepository {
	return &PostgresInvestmentRepository{DB: db}
}

func scanInvestment(row interface{ Scan(...any) error }) (*models.Investment, error) {
	var (
		inv   models.Investment
		fecha time.Time
		desc  sql.NullString
	)
	if err := row.Scan(&inv.ID, &inv.Tipo, &inv.Cantidad, &fecha, &desc, &inv.UsuarioID); err != nil {
		return nil, err
	}
	inv.Fecha = models.DateOf(fecha)
	inv.Descripcion = desc.String
	return &inv, nil
}

// GetByID fetches a single investment by id regardless of owner.
// Returns ErrNotFound if the row does not exist.
func (r *PostgresInvestmentRepository) GetByID(ctx context.Context, id int64) (*models.Investment, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id FROM inversiones WHERE id = $1
	`, id)
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return inv, nil
}

// ListByOwner fetches all investments belonging to the given user.
func (r *PostgresInvestmentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Investment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id FROM inversiones WHERE usuario_id = $1 ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	return collectInvestments(rows)
}

// ListByOwnerBetween fetches the owner's investments with a date in [from, to).
func (r *PostgresInvestmentRepository) ListByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Investment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id FROM inversiones WHERE usuario_id = $1 AND fecha_inversion >= $2 AND fecha_inversion < $3 ORDER BY id
	`, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ListByOwnerBetween: %w", err)
	}
	return collectInvestments(rows)
}

// ListAll fetches every investment row. Used for the admin list view.
func (r *PostgresInvestmentRepository) ListAll(ctx context.Context) ([]models.Investment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id FROM inversiones ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return collectInvestments(rows)
}

// Create inserts a new investment and returns its assigned id.
func (r *PostgresInvestmentRepository) Create(ctx context.Context, inv *models.Investment) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO inversiones (tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id) VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, inv.Tipo, inv.Cantidad, inv.Fecha.Time, inv.Descripcion, inv.UsuarioID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}
	return id, nil
}

// Update rewrites all mutable columns of the investment with the given id.
func (r *PostgresInvestmentRepository) Update(ctx context.Context, inv *models.Investment) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE inversiones SET tipo_inversion = $1, cantidad_inversion = $2, fecha_inversion = $3, descripcion = $4 WHERE id = $5
	`, inv.Tipo, inv.Cantidad, inv.Fecha.Time, inv.Descripcion, inv.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete removes the investment with the given id. Deleting a missing id
// is not an error.
func (r *PostgresInvestmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM inversiones WHERE id = $1`, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func collectInvestments(rows *sql.Rows) ([]models.Investment, error) {
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		investments = append(investments, *inv)
	}
	return investments, rows.Err()
}
