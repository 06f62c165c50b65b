package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeUpstream   = "UPSTREAM_ERROR"
	ErrCodeNoMatch    = "NO_MATCH"
	ErrCodeSelection  = "SELECTION_ERROR"
	ErrCodeExport     = "EXPORT_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// AppError represents an application error with a machine readable code
type AppError struct {
	Code    string // Error code (e.g., "UPSTREAM_ERROR", "NO_MATCH")
	Message string // Human-readable error message
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates an UPSTREAM_ERROR for a failed one-shot call to OGS
func NewUpstreamError(operation string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: fmt.Sprintf("%s failed", operation),
		Err:     err,
	}
}

// NewNoMatchError creates a NO_MATCH error
func NewNoMatchError(query string) *AppError {
	return &AppError{
		Code:    ErrCodeNoMatch,
		Message: fmt.Sprintf("no player matches %q", query),
	}
}

// NewSelectionError creates a SELECTION_ERROR
func NewSelectionError(reason string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeSelection,
		Message: reason,
		Err:     err,
	}
}

// NewExportError creates an EXPORT_ERROR
func NewExportError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeExport,
		Message: fmt.Sprintf("cannot prepare directory %s", path),
		Err:     err,
	}
}

// NewValidationError creates a VALIDATION_ERROR for an invalid setting
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("%s %s", field, reason),
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
