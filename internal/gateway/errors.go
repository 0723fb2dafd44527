package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the uniform failure surfaced for every upstream call.
// StatusCode is 0 for transport failures (connection refused, timeout),
// otherwise the upstream HTTP status. Message carries the upstream detail
// text when one was provided.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("quiz service unreachable: %s", e.Message)
	}
	return fmt.Sprintf("quiz service returned %d: %s", e.StatusCode, e.Message)
}

// Transport reports whether the failure never reached the upstream service.
func (e *Error) Transport() bool {
	return e.StatusCode == 0
}

// Auth reports an expired/invalid token or a role rejection. Distinguished
// from other failures only by status code; no automatic refresh or retry
// happens anywhere.
func (e *Error) Auth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Validation reports a 4xx rejection other than an auth failure.
func (e *Error) Validation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && !e.Auth()
}

// AsError unwraps err into a *Error if it is one.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
