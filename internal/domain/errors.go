package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested project, team or entity does not
	// exist on the remote service.
	ErrNotFound = errors.New("not found")

	// ErrRemoteFailure covers transport errors and non-success responses.
	ErrRemoteFailure = errors.New("remote failure")

	// ErrUnauthorized is a remote failure caused by a rejected session token.
	// It wraps ErrRemoteFailure so callers can treat both alike.
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrRemoteFailure)

	// ErrShape indicates a response payload that does not match the expected
	// entity shape. It is handled exactly like ErrRemoteFailure.
	ErrShape = errors.New("unexpected response shape")
)

// ValidationError is a local, pre-flight rejection. Nothing was sent and no
// state changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// NewValidationError builds a *ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRemote reports whether err should be treated as a failed remote call
// (transport, status or shape).
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemoteFailure) || errors.Is(err, ErrShape)
}
