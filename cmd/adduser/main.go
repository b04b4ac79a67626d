// Package main is an operator CLI that inserts a user directly into the
// database, hashing the password with bcrypt. Useful for bootstrapping
// accounts without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/nmcalabroso/fintrack/internal/db"
	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/repository"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dsn := fs.String("d", "", "database connection string")
	nombre := fs.String("user", "", "username")
	correo := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	admin := fs.Bool("admin", false, "grant the admin role")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_DSN")
	}
	if *nombre == "" || *password == "" || *dsn == "" {
		fmt.Fprintln(stdout, "Usage: adduser -d <dsn> -user <username> -password <password> [-email <email>] [-admin]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags")
	}

	database, err := db.InitPostgres(*dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	rol := models.RoleUser
	if *admin {
		rol = models.RoleAdmin
	}

	repo := repository.NewPostgresUserRepository(database)
	id, err := repo.Create(context.Background(), &models.User{
		Nombre:     *nombre,
		Correo:     *correo,
		Contrasena: string(hash),
		Rol:        rol,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", *nombre, id)
	return nil
}
