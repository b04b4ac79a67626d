// Package repository provides PostgreSQL persistence for users, expenses
// and investments.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nmcalabroso/fintrack/internal/models"
)

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate record")
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// PostgresUserRepository implements user persistence against PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to PostgreSQL.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByName fetches the user with the given username.
// Returns ErrNotFound if no such user exists.
func (r *PostgresUserRepository) GetByName(ctx context.Context, nombre string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, nombre, correo, contrasena, rol FROM items WHERE nombre = $1`,
		nombre,
	).Scan(&u.ID, &u.Nombre, &u.Correo, &u.Contrasena, &u.Rol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return &u, nil
}

// GetByID fetches the user with the given id.
// Returns ErrNotFound if no such user exists.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, nombre, correo, contrasena, rol FROM items WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Nombre, &u.Correo, &u.Contrasena, &u.Rol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &u, nil
}

// Create inserts a new user and returns its assigned id.
// Returns ErrDuplicate when the username is already taken.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO items (nombre, correo, contrasena, rol) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Nombre, u.Correo, u.Contrasena, u.Rol,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("Create: %w", err)
	}
	return id, nil
}

// List returns all users ordered by id.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, nombre, correo, contrasena, rol FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Correo, &u.Contrasena, &u.Rol); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
