// Package errors provides structured error types for tscproj.
//
// Every failure the engine reports to a caller carries a [Code] so that the
// CLI, the HTTP API and batch summaries can react to the category of the
// failure without string matching:
//   - INVALID_*: bad caller input such as a non-positive scale factor
//   - PARSE_FAILED: a project file that is not a JSON document
//   - UNSUPPORTED_VERSION: a project version the strict loader refuses
//   - FILE_NOT_FOUND: a missing project file or container
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFactor, "scale factor must be positive, got %v", f)
//	if errors.Is(err, errors.ErrCodeInvalidFactor) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, synErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFactor    Code = "INVALID_FACTOR"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidStructure Code = "INVALID_STRUCTURE"

	// Project content errors
	ErrCodeParse              Code = "PARSE_FAILED"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	ErrCodeConflict           Code = "CONFLICT"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeMediaNotFound Code = "MEDIA_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ValidationError collects every structural problem found in a project
// document. Messages use the form "<field> must be a <kind>".
type ValidationError struct {
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "invalid project structure"
	case 1:
		return e.Errors[0]
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0], len(e.Errors)-1)
}

// Code returns the error code for this error type.
func (e *ValidationError) Code() Code {
	return ErrCodeInvalidStructure
}
