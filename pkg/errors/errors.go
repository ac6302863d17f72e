// Package errors provides structured error types for algotrace.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the HTTP API and the playback controller can decide
// how to present it without string matching:
//
//   - INVALID_*, DANGLING_REFERENCE, UNKNOWN_NODE, AMBIGUOUS_ROOT: input
//     rejected by the validator before any request is made
//   - NETWORK_ERROR, TIMEOUT, MALFORMED_TRACE: trace service failures,
//     surfaced as a playback Error state
//   - STALE_SESSION: a response that arrived for a discarded session
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDanglingReference, "neighbor %q is not defined as a node", id).
//		WithField(id)
//	if errors.Is(err, errors.ErrCodeDanglingReference) {
//	    // correct the input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "request %s", url)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidNumber     Code = "INVALID_NUMBER"
	ErrCodeEmptyInput        Code = "EMPTY_INPUT"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeUnknownNode       Code = "UNKNOWN_NODE"
	ErrCodeInvalidWeight     Code = "INVALID_WEIGHT"
	ErrCodeAmbiguousRoot     Code = "AMBIGUOUS_ROOT"
	ErrCodeInvalidTree       Code = "INVALID_TREE"
	ErrCodeInvalidParameter  Code = "INVALID_PARAMETER"
	ErrCodeUnknownAlgorithm  Code = "UNKNOWN_ALGORITHM"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Trace service errors
	ErrCodeNetwork        Code = "NETWORK_ERROR"
	ErrCodeTimeout        Code = "TIMEOUT"
	ErrCodeMalformedTrace Code = "MALFORMED_TRACE"

	// Playback errors
	ErrCodeStaleSession Code = "STALE_SESSION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Offending identifier or parameter name (optional)
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

// WithField records the offending identifier and returns e.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
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

// GetField extracts the offending identifier from an error, if available.
func GetField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsValidation reports whether err was produced by input validation.
// Validation errors are always recoverable by correcting the input.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidNumber, ErrCodeEmptyInput,
		ErrCodeDanglingReference, ErrCodeUnknownNode, ErrCodeInvalidWeight,
		ErrCodeAmbiguousRoot, ErrCodeInvalidTree, ErrCodeInvalidParameter,
		ErrCodeUnknownAlgorithm:
		return true
	}
	return false
}

// IsTransport reports whether err is a trace service failure.
func IsTransport(err error) bool {
	switch GetCode(err) {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeMalformedTrace:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// Transport failures collapse to a generic retryable message; other *Error
// values return their message without the code prefix. For other errors,
// returns the error string as-is.
func UserMessage(err error) string {
	if IsTransport(err) {
		if GetCode(err) == ErrCodeTimeout {
			return "trace service did not respond in time, press replay to try again"
		}
		return "trace service unavailable, press replay to try again"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
