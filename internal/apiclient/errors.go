package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotConfigured is returned when a request is issued before Configure.
	ErrNotConfigured = errors.New("apiclient: base URL not configured")

	// ErrTransport wraps network-level failures (DNS, refused, timeout).
	ErrTransport = errors.New("apiclient: transport failure")

	// ErrRejected is returned when the API answers 2xx with error: true, or
	// with an envelope missing the data the caller needs.
	ErrRejected = errors.New("apiclient: request rejected")
)

// StatusError carries a non-2xx response.  Message is the envelope message
// when the API sent one, else the status text.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: %d %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the API refused the credentials or token.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Reason maps err onto a short label for logs and metrics.
func Reason(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.As(err, &se):
		if se.Unauthorized() {
			return "unauthorized"
		}
		return "status"
	case errors.Is(err, ErrTransport):
		return "transport"
	}
	return "error"
}

func rejected(msg string) error {
	if msg == "" {
		return ErrRejected
	}
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}
