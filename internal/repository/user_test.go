package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/nmcalabroso/fintrack/internal/models"
)

func setupUserMock(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresUserRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func userColumns() []string {
	return []string{"id", "nombre", "correo", "contrasena", "rol"}
}

func TestUserGetByName_Found(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, nombre, correo, contrasena, rol FROM items WHERE nombre = $1`)).
		WithArgs("pablo").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(3), "pablo", "pablo@gmail.com", "hash", "user"))

	user, err := repo.GetByName(context.Background(), "pablo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 3 || user.Nombre != "pablo" || user.Rol != "user" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserGetByName_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, nombre, correo, contrasena, rol FROM items WHERE nombre = $1`)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByName(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserGetByID_Found(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, nombre, correo, contrasena, rol FROM items WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(3), "pablo", "pablo@gmail.com", "hash", "user"))

	user, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 3 || user.Nombre != "pablo" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, nombre, correo, contrasena, rol FROM items WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserCreate_ReturnsID(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO items (nombre, correo, contrasena, rol) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("maria", "maria@gmail.com", "hash", "user").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Create(context.Background(), &models.User{
		Nombre:     "maria",
		Correo:     "maria@gmail.com",
		Contrasena: "hash",
		Rol:        "user",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 11 {
		t.Errorf("id = %d; want 11", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserCreate_Duplicate(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO items (nombre, correo, contrasena, rol) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("maria", "maria@gmail.com", "hash", "user").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{
		Nombre:     "maria",
		Correo:     "maria@gmail.com",
		Contrasena: "hash",
		Rol:        "user",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("error = %v; want ErrDuplicate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserList(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, nombre, correo, contrasena, rol FROM items ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(1), "pablo", "pablo@gmail.com", "h1", "user").
			AddRow(int64(2), "maria", "maria@gmail.com", "h2", "admin"))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d; want 2", len(users))
	}
	if users[1].Rol != "admin" {
		t.Errorf("users[1].Rol = %q; want admin", users[1].Rol)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
