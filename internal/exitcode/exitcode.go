// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskflow/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found, ambiguous).
	UserError = 1

	// AuthError indicates a missing or rejected session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps an error to an exit code. A nil error is Success.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	switch {
	case service.IsValidation(err),
		errors.Is(err, service.ErrListNotFound),
		errors.Is(err, service.ErrAmbiguousList),
		errors.Is(err, service.ErrTaskNotFound):
		return UserError
	case errors.Is(err, service.ErrNotLoggedIn):
		return AuthError
	}

	switch service.KindOf(err) {
	case service.KindUnauthorized:
		return AuthError
	case service.KindNotFound, service.KindInvalid:
		return UserError
	default:
		return BackendError
	}
}
