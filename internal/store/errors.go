package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrStorageFailure is returned when the backing store cannot be read or
	// written. Check the wrapped error for driver details.
	ErrStorageFailure = errors.New("storage failure")

	// ErrInvalidRecordName is returned when a record name is empty or unusable
	// by the backend.
	ErrInvalidRecordName = errors.New("invalid record name")

	// ErrRecordNotFound indicates that the named record has never been written.
	ErrRecordNotFound = fmt.Errorf("%w: record", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "record")
	Operation string // The operation that failed (e.g., "get", "put")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// StorageFailure wraps a driver error for operation on the named record so
// that it matches ErrStorageFailure while keeping the driver error in the chain.
func StorageFailure(operation, name string, err error) error {
	return NewStoreError("record "+name, operation, ErrStorageFailure.Error(),
		errors.Join(ErrStorageFailure, err))
}

// ValidateRecordName rejects empty record names.
func ValidateRecordName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRecordName)
	}
	return nil
}
