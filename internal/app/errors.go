package app

import (
	"errors"
	"fmt"
)

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")
)

// ValidationError reports a rejected form or command input. It blocks the action.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failed repository call. The in-progress action is aborted.
type StorageError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the repository error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr wraps err unless it is nil.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsStorage reports whether err carries a StorageError.
func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
