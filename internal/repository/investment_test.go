package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nmcalabroso/fintrack/internal/models"
)

func setupInvestmentMock(t *testing.T) (*PostgresInvestmentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresInvestmentRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestInvestmentCreateAndGet(t *testing.T) {
	repo, mock, cleanup := setupInvestmentMock(t)
	defer cleanup()

	fecha := models.NewDate(2024, time.March, 1)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO inversiones (tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`)).
		WithArgs("stocks", 1000.0, fecha.Time, "", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	id, err := repo.Create(context.Background(), &models.Investment{
		Tipo:      "stocks",
		Cantidad:  1000.0,
		Fecha:     fecha,
		UsuarioID: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 4 {
		t.Errorf("id = %d; want 4", id)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id FROM inversiones WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tipo_inversion", "cantidad_inversion", "fecha_inversion", "descripcion", "usuario_id"}).
			AddRow(int64(4), "stocks", 1000.0, fecha.Time, nil, int64(3)))

	inv, err := repo.GetByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Tipo != "stocks" || inv.UsuarioID != 3 {
		t.Errorf("unexpected investment: %+v", inv)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInvestmentGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupInvestmentMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, tipo_inversion, cantidad_inversion, fecha_inversion, descripcion, usuario_id FROM inversiones WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tipo_inversion", "cantidad_inversion", "fecha_inversion", "descripcion", "usuario_id"}))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}
