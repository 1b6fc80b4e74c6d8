// Package apperrors defines the sentinel errors shared across services,
// repositories and the HTTP layer.
package apperrors

import "errors"

var (
	// ErrNotFound signals that a resource does not exist or is not owned
	// by the calling account. The two cases are deliberately the same error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals a blank or oversized field in a request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict signals a uniqueness violation, e.g. a taken username.
	ErrConflict = errors.New("already exists")

	// ErrUnauthenticated signals missing or bad credentials.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken signals a token that failed signature, format or
	// expiry checks.
	ErrInvalidToken = errors.New("invalid token")
)
