package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested document does not exist in the
	// collection. It is an expected outcome, not a storage failure.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidID is returned when an identifier is not syntactically valid
	// for the underlying store (for example, not a 24-character hex ObjectID).
	ErrInvalidID = errors.New("invalid document identifier")

	// ErrStorage is returned when the underlying store is unreachable or an
	// operation against it failed. Check the wrapped error for driver details.
	ErrStorage = errors.New("storage failure")
)

// IsNotFoundError reports whether err means the referenced document cannot be
// resolved, either because it does not exist or because its identifier is
// malformed. Clients cannot tell the two apart.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
}

// StoreError is a custom error type for store failures with additional context.
type StoreError struct {
	Collection string // The collection the operation targeted (e.g., "task")
	Operation  string // The operation that failed (e.g., "create", "update")
	Message    string // Error message
	Err        error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Collection,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Collection, e.Message)
}

// Unwrap returns ErrStorage together with the wrapped driver error so that
// errors.Is matches both.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Err}
}

// NewStoreError creates a new StoreError with the given collection, operation, message, and wrapped error.
func NewStoreError(collection, operation, message string, err error) *StoreError {
	return &StoreError{
		Collection: collection,
		Operation:  operation,
		Message:    message,
		Err:        err,
	}
}
