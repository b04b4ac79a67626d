// Package models defines the core data structures for users, expenses,
// investments and authenticated identities.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Roles recognized by the access policy.
const (
	// RoleUser is the default role assigned to registered users.
	RoleUser = "user"
	// RoleAdmin grants blanket read/write visibility across all records.
	RoleAdmin = "admin"
)

// AdminID is the synthetic identifier of the admin pseudo-user.
// It never appears in the items table.
const AdminID int64 = 0

// User represents an application user record from the items table.
type User struct {
	// ID is the unique identifier assigned by the database.
	ID int64 `json:"id"`
	// Nombre is the unique username used as the login key.
	Nombre string `json:"nombre"`
	// Correo is the user's email address.
	Correo string `json:"correo"`
	// Contrasena holds the bcrypt hash of the password. Never serialized.
	Contrasena string `json:"-"`
	// Rol is the user's role, "user" or "admin".
	Rol string `json:"rol"`
}

// Identity is the resolved authenticated identity derived from a verified
// token. It is reconstructed per request and never persisted.
type Identity struct {
	// ID is the user's database id, or 0 for the synthetic admin.
	ID int64 `json:"id"`
	// Username is the login name from the token subject.
	Username string `json:"username"`
	// Email is the user's email address.
	Email string `json:"email"`
	// Role is the effective role, sourced from storage for regular users.
	Role string `json:"rol"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Expense represents a single outflow record owned by a user.
type Expense struct {
	// ID is the unique identifier assigned by the database.
	ID int64 `json:"id"`
	// Tipo is the free-text category label of the expense.
	Tipo string `json:"tipo_gasto"`
	// Cantidad is the expense amount. No currency unit is assumed.
	Cantidad float64 `json:"cantidad_gasto"`
	// Fecha is the expense date, defaulting to the creation date.
	Fecha Date `json:"fecha_gasto"`
	// Descripcion is an optional free-text note.
	Descripcion string `json:"descripcion,omitempty"`
	// UsuarioID is the id of the owning user.
	UsuarioID int64 `json:"usuario_id"`
}

// Investment represents a single inflow record owned by a user.
// It has the same shape as Expense with the category relabeled.
type Investment struct {
	// ID is the unique identifier assigned by the database.
	ID int64 `json:"id"`
	// Tipo is the free-text investment type label.
	Tipo string `json:"tipo_inversion"`
	// Cantidad is the invested amount.
	Cantidad float64 `json:"cantidad_inversion"`
	// Fecha is the investment date, defaulting to the creation date.
	Fecha Date `json:"fecha_inversion"`
	// Descripcion is an optional free-text note.
	Descripcion string `json:"descripcion,omitempty"`
	// UsuarioID is the id of the owning user.
	UsuarioID int64 `json:"usuario_id"`
}

// Date is a calendar date serialized as "YYYY-MM-DD" on the wire.
// The time-of-day portion is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// UnmarshalJSON decodes a quoted "YYYY-MM-DD" string. JSON null leaves
// the date zero.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}
