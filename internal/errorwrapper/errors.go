package errorwrapper

import (
	"errors"
	"fmt"
)

// Common error types used across the application
var (
	// ErrPermissionDenied indicates screen-capture access has not been granted
	ErrPermissionDenied = errors.New("permission denied")
	// ErrCaptureFailure indicates a transient screenshot or window-enumeration failure
	ErrCaptureFailure = errors.New("capture failure")
	// ErrClassificationFailure indicates the vision API call failed or timed out
	ErrClassificationFailure = errors.New("classification failure")
	// ErrStorageFailure indicates data could not be persisted
	ErrStorageFailure = errors.New("storage failure")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// PermissionError reports missing screen-recording access. The message must be
// user-actionable: it names the command that diagnoses the problem.
type PermissionError struct {
	Operation string
	Wrapped   error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("screen capture permission denied during %s: grant screen-recording access to this terminal, then verify with 'screentrack check-permissions'", e.Operation)
}

func (e *PermissionError) Unwrap() error {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return ErrPermissionDenied
}

// Is lets errors.Is(err, ErrPermissionDenied) match regardless of wrapping.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// NewPermissionError creates a new permission error for the given operation
func NewPermissionError(operation string, wrapped error) *PermissionError {
	return &PermissionError{Operation: operation, Wrapped: wrapped}
}

// CaptureError represents a transient capture failure for one tick
type CaptureError struct {
	Monitor int
	Reason  string
	Wrapped error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed on monitor %d: %s", e.Monitor, e.Reason)
}

func (e *CaptureError) Unwrap() error {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return ErrCaptureFailure
}

func (e *CaptureError) Is(target error) bool {
	return target == ErrCaptureFailure
}

// NewCaptureError creates a new capture error
func NewCaptureError(monitor int, reason string, wrapped error) *CaptureError {
	return &CaptureError{Monitor: monitor, Reason: reason, Wrapped: wrapped}
}

// ClassificationError represents a failed or timed-out vision API call.
// It is never fatal: the change record is kept with an unclassified status.
type ClassificationError struct {
	ImagePath string
	Reason    string
	Wrapped   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed for '%s': %s", e.ImagePath, e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return ErrClassificationFailure
}

func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassificationFailure
}

// NewClassificationError creates a new classification error
func NewClassificationError(imagePath, reason string, wrapped error) *ClassificationError {
	return &ClassificationError{ImagePath: imagePath, Reason: reason, Wrapped: wrapped}
}

// StorageError represents a failure to persist data. Inability to persist is
// treated as run-ending, otherwise data loss would be silent.
type StorageError struct {
	Path    string
	Reason  string
	Wrapped error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for '%s': %s", e.Path, e.Reason)
}

func (e *StorageError) Unwrap() error {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return ErrStorageFailure
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// NewStorageError creates a new storage error
func NewStorageError(path, reason string, wrapped error) *StorageError {
	return &StorageError{Path: path, Reason: reason, Wrapped: wrapped}
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
