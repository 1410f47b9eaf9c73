package domain

import "fmt"

// Error types for consistent error handling across the service.
//
// Data-quality problems (malformed amounts, unparseable dates) are NOT
// errors: the normalizers fail soft to zero / invalid-timestamp and the
// pipeline keeps going. Only structural problems reach these types.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrSchemaMismatch indicates a required column is absent from a
// worksheet's header row. There is no soft fallback for a missing column,
// so this propagates to the caller as a fatal configuration error.
type ErrSchemaMismatch struct {
	Worksheet string
	Column    string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("worksheet %q is missing required column %q", e.Worksheet, e.Column)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
