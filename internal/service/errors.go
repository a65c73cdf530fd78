package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request so callers can choose between
// logging in again and retrying.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindNotFound
	KindInvalid
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// KindForStatus maps an HTTP status code to a Kind.
func KindForStatus(code int) Kind {
	switch {
	case code == 401 || code == 403:
		return KindUnauthorized
	case code == 404:
		return KindNotFound
	case code == 400 || code == 409 || code == 422:
		return KindInvalid
	case code >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// RequestError is returned when the backend answers with a non-success
// status or cannot be reached.
type RequestError struct {
	Op      string // operation name, e.g. "getLists"
	Kind    Kind
	Message string // human-readable
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ValidationError is a local failure on a required form field. No request
// is made when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrListNotFound is returned when no list matches a reference.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousList is returned when several lists share a title.
	ErrAmbiguousList = errors.New("ambiguous list name")

	// ErrTaskNotFound is returned when a task reference is out of range.
	ErrTaskNotFound = errors.New("task not found")
)

// KindOf returns the Kind of a RequestError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// IsUnauthorized reports whether err means the session is no longer accepted.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func listRefError(sentinel error, ref string) error {
	return fmt.Errorf("%w: %s", sentinel, ref)
}
