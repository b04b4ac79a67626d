// Package token issues and verifies signed session tokens encoding
// user identity and role claims.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that fails
// signature validation, has a malformed payload, or is expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload. Role travels under the "rol" key and the
// user id under the registered "sub" claim, both as in the original API.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"rol"`
	jwt.RegisteredClaims
}

// SubjectID returns the numeric user id carried in the subject claim.
// ok is false when the subject is absent or not numeric (legacy tokens).
func (c *Claims) SubjectID() (int64, bool) {
	if c.Subject == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Service signs and verifies tokens with a symmetric HS256 key.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New constructs a token Service. ttl bounds the lifetime of every
// issued token.
func New(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue produces a signed token carrying the given identity claims,
// stamped with issued-at and expiry times.
func (s *Service) Issue(username, email, role string, subjectID int64) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify validates the token signature and expiry and returns the
// decoded claims. All failure modes collapse to ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
