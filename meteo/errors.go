package meteo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUserAgentRequired is returned when the client has no User-Agent.
// MET answers anonymous requests with 403.
var ErrUserAgentRequired = errors.New("meteo: user agent is required")

// APIError is a non-200 answer from the sunrise API
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sunrise API %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Retryable reports whether the same request may succeed later
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ValidationError rejects a query parameter before any request is made
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

// NetworkError wraps transport failures
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a throttling, server or transport failure.
// Cancelled or expired contexts are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	var netErr *NetworkError
	return errors.As(err, &netErr)
}
