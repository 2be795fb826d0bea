// Package apperr defines the error taxonomy shared by services and
// handlers. Services wrap these sentinels with context; handlers map them
// to HTTP status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks malformed or missing input. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a state conflict such as a duplicate username or
	// a second admin registration.
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated marks bad credentials or a missing, expired or
	// invalid token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden marks an authenticated user whose role rank is below
	// the required minimum.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks an unknown resource identifier.
	ErrNotFound = errors.New("not found")

	// ErrDelivery marks a notification channel failure. The generated
	// code stays ACTIVE; the caller decides what to tell the user.
	ErrDelivery = errors.New("delivery failed")
)
