package ingest

import "fmt"

// ConfigurationError means a required request parameter was missing.
// Maps to HTTP 400.
type ConfigurationError struct {
	Param string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is required", e.Param)
}

// AuthenticationError covers both account lookup and token failures. The
// status split (400 for account-not-found/inactive, 401 for token mismatch)
// mirrors the observable API contract and is intentional.
type AuthenticationError struct {
	Reason string
	Status int
}

func (e *AuthenticationError) Error() string {
	return e.Reason
}

// ValidationError means the payload could not be parsed or normalized.
// Maps to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func missingField(name string) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf("missing required field: %s", name)}
}

// ErrInvalidJSON is returned when the request body is not valid JSON.
var ErrInvalidJSON = &ValidationError{Msg: "invalid JSON payload"}

// PersistenceError wraps a storage failure on the order insert. Maps to
// HTTP 500.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
