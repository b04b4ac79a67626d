package service

import "errors"

var (
	// ErrUnauthorized indicates a missing, invalid or expired token, or a
	// token subject that is no longer recognized.
	ErrUnauthorized = errors.New("invalid or expired token")
	// ErrForbidden indicates an authenticated caller without sufficient
	// role or ownership for the operation.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials is the single login failure, deliberately
	// ambiguous between an unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrDuplicateUser indicates the username is already taken.
	ErrDuplicateUser = errors.New("username already taken")
)
