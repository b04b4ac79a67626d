// Package service provides business-logic services for authentication,
// expense and investment management, and financial analytics, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/repository"
	"github.com/nmcalabroso/fintrack/internal/token"
)

// Reserved admin account. The admin identity is never persisted; it is
// recognized by the fixed username at login and by its role claim on
// every subsequent request.
const (
	AdminUsername = "admin_master"
	AdminEmail    = "admin@system.com"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetByName fetches a user by username, repository.ErrNotFound if absent.
	GetByName(ctx context.Context, nombre string) (*models.User, error)
	// GetByID fetches a user by id, repository.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Create inserts a new user and returns the assigned id.
	Create(ctx context.Context, u *models.User) (int64, error)
	// List returns all users.
	List(ctx context.Context) ([]models.User, error)
}

// TokenService signs and verifies session tokens.
type TokenService interface {
	Issue(username, email, role string, subjectID int64) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

// AuthService implements login, registration and token-based
// authentication. It is the single place where privilege is decided.
type AuthService struct {
	repo          UserRepository
	tokens        TokenService
	adminPassword []byte
	log           *zap.Logger
}

// NewAuthService constructs an AuthService. adminPassword is the fixed
// secret for the reserved admin account.
func NewAuthService(repo UserRepository, tokens TokenService, adminPassword string, log *zap.Logger) *AuthService {
	return &AuthService{
		repo:          repo,
		tokens:        tokens,
		adminPassword: []byte(adminPassword),
		log:           log,
	}
}

// Login checks the credentials and returns a signed token on success.
// Unknown usernames and wrong passwords both fail with
// ErrInvalidCredentials so the response does not reveal which part was
// wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == AdminUsername {
		if len(s.adminPassword) == 0 ||
			subtle.ConstantTimeCompare([]byte(password), s.adminPassword) != 1 {
			s.log.Debug("admin login rejected")
			return "", ErrInvalidCredentials
		}
		return s.tokens.Issue(AdminUsername, AdminEmail, models.RoleAdmin, models.AdminID)
	}

	user, err := s.repo.GetByName(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debug("login attempt for unknown user", zap.String("username", username))
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Contrasena), []byte(password)) != nil {
		s.log.Debug("login attempt with wrong password", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Nombre, user.Correo, user.Rol, user.ID)
}

// Authenticate resolves a bearer token to an Identity.
//
// The reserved admin name combined with an admin role claim yields the
// synthetic admin identity without touching storage; the claims are
// trusted because the token signature is ours. Regular users are looked
// up by name and their id and role come from the stored record, so a
// forged role claim in a user token cannot escalate privilege.
//
// Tokens without a username claim are resolved through the subject id
// instead; older tokens carried only "sub".
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Identity, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if claims.Username == "" {
		id, ok := claims.SubjectID()
		if !ok {
			return nil, ErrUnauthorized
		}
		user, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		if err != nil {
			return nil, fmt.Errorf("authenticate lookup: %w", err)
		}
		return s.identityOf(user), nil
	}

	if claims.Username == AdminUsername && claims.Role == models.RoleAdmin {
		return &models.Identity{
			ID:       models.AdminID,
			Username: AdminUsername,
			Email:    AdminEmail,
			Role:     models.RoleAdmin,
		}, nil
	}

	user, err := s.repo.GetByName(ctx, claims.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate lookup: %w", err)
	}

	return s.identityOf(user), nil
}

// identityOf builds the request identity from a stored user record.
func (s *AuthService) identityOf(user *models.User) *models.Identity {
	return &models.Identity{
		ID:       user.ID,
		Username: user.Nombre,
		Email:    user.Correo,
		Role:     user.Rol,
	}
}

// RequireAdmin fails with ErrForbidden unless the identity carries the
// admin role.
func (s *AuthService) RequireAdmin(identity *models.Identity) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Register creates a regular user with a bcrypt-hashed password. The
// role is always "user"; it is never client-controlled on creation.
func (s *AuthService) Register(ctx context.Context, nombre, correo, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Nombre:     nombre,
		Correo:     correo,
		Contrasena: string(hash),
		Rol:        models.RoleUser,
	}

	id, err := s.repo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.ID = id
	return user, nil
}

// ListUsers returns all registered users.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}
