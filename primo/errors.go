package primo

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid primo configuration")
	// ErrInvalidCredentials indicates the remote rejected the username/password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated indicates an authenticated call was made before Login
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrMissingToken indicates the login response carried no usable token
	ErrMissingToken = errors.New("no token received in login response")
	// ErrViewNotSet indicates a public record call was made before the view was set
	ErrViewNotSet = errors.New("view not set, login first")
)

// APIError represents an unexpected HTTP response from the catalog API
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("primo API error: status %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// MalformedResponseError indicates a remote payload that does not match the
// expected shape. Field names the offending field or counter type.
type MalformedResponseError struct {
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: field %q: %s", e.Field, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
