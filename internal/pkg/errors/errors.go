package errors

import "errors"

// Common application errors shared across services and handlers.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (bad credentials, invalid token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the user is not allowed to perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for state conflicts, e.g. accepting a challenge
	// that has already been rejected or completed.
	ErrConflict = errors.New("resource state conflict")
)
