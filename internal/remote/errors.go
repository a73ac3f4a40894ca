package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// StatusError is a non-2xx response. It wraps the domain sentinel that
// matches the status.
type StatusError struct {
	Op     string
	Status int
	Body   string
	cause  error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: status %d", e.Op, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return e.cause }

func newStatusError(op string, status int, body []byte) *StatusError {
	e := &StatusError{Op: op, Status: status, Body: truncate(string(body), 200)}
	switch status {
	case http.StatusNotFound:
		e.cause = domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		e.cause = domain.ErrUnauthorized
	default:
		e.cause = domain.ErrRemoteFailure
	}
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.Status)
	case errors.Is(err, domain.ErrShape):
		return "INVALID_SHAPE"
	case isConnectionError(err):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}
