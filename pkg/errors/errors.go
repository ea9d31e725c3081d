package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors for transport-level mapping
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates malformed or rejected input
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates missing or invalid credentials
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates a failure in an upstream collaborator
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// TypeOf returns the classified type of err, or ErrorTypeInternal for
// errors that are not AppErrors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsNotFound reports whether err is a not-found AppError. Services use
// this to turn repository misses into soft boolean results instead of
// propagating them as failures.
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsValidation reports whether err is a validation AppError.
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}
