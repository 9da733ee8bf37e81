// Package errors provides structured error types for repoinsight.
//
// Every failure that crosses a package boundary carries a [Code] so the
// pipeline can record a machine-readable reason on a failed job and the CLI
// can print a short message without the code prefix.
//
// # Error Codes
//
// Codes follow a coarse naming convention:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: missing resources
//   - *_UNAVAILABLE: collaborators that could not serve a request
//   - INTERNAL_ERROR: unexpected failures, including recovered panics
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // handle validation error
//	}
//
//	err = errors.Wrap(errors.ErrCodeRepositoryUnavailable, cause, "clone %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidTransition Code = "INVALID_TRANSITION"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeJobNotFound Code = "JOB_NOT_FOUND"

	// Collaborator errors
	ErrCodeRepositoryUnavailable Code = "REPOSITORY_UNAVAILABLE"
	ErrCodeInferenceUnavailable  Code = "INFERENCE_UNAVAILABLE"
	ErrCodeManifestParse         Code = "MANIFEST_PARSE"
	ErrCodeStorage               Code = "STORAGE_ERROR"
	ErrCodeTimeout               Code = "TIMEOUT"

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
// For *Error types, returns the message (and cause, if any) without the
// code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// FromPanic converts a recovered panic value into an internal error.
func FromPanic(v any) *Error {
	if err, ok := v.(error); ok {
		return Wrap(ErrCodeInternal, err, "panic")
	}
	return New(ErrCodeInternal, "panic: %v", v)
}
