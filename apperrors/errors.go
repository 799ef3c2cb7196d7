package apperrors

import (
	"errors"
	"fmt"
)

// Code represents a stable error code for programmatic handling
type Code string

const (
	CodeInvalid      Code = "invalid"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"
)

// AppError carries a code, a client-facing message and optional field-level messages
type AppError struct {
	Code    Code
	Message string
	Fields  map[string][]string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support
func (e *AppError) Unwrap() error { return e.Err }

// New creates a new AppError with code and message
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation builds an invalid-input error holding per-field messages
func Validation(fields map[string][]string) *AppError {
	return &AppError{Code: CodeInvalid, Message: "validation failed", Fields: fields}
}

// NotFound is the generic missing-object error
func NotFound() *AppError {
	return New(CodeNotFound, "Not found.")
}

// Forbidden is the generic policy-denial error
func Forbidden() *AppError {
	return New(CodeForbidden, "You do not have permission to perform this action.")
}

// IsCode checks if an error has the provided code (through unwrapping)
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// As extracts the AppError from err, if any
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
