package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
    id SERIAL PRIMARY KEY,
    nombre TEXT UNIQUE NOT NULL,
    correo TEXT NOT NULL,
    contrasena TEXT NOT NULL,
    rol TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE IF NOT EXISTS gastos (
    id SERIAL PRIMARY KEY,
    tipo_gasto TEXT NOT NULL,
    cantidad_gasto DOUBLE PRECISION NOT NULL,
    fecha_gasto DATE NOT NULL DEFAULT CURRENT_DATE,
    descripcion TEXT,
    usuario_id INTEGER REFERENCES items(id)
);

CREATE TABLE IF NOT EXISTS inversiones (
    id SERIAL PRIMARY KEY,
    tipo_inversion TEXT NOT NULL,
    cantidad_inversion DOUBLE PRECISION NOT NULL,
    fecha_inversion DATE NOT NULL DEFAULT CURRENT_DATE,
    descripcion TEXT,
    usuario_id INTEGER REFERENCES items(id)
);

CREATE INDEX IF NOT EXISTS idx_gastos_usuario ON gastos (usuario_id, fecha_gasto);
CREATE INDEX IF NOT EXISTS idx_inversiones_usuario ON inversiones (usuario_id, fecha_inversion);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
