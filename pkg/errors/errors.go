// Package errors provides structured error types for the waveplan command and
// planning service.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// The planning core (pkg/dag and its subpackages) returns plain typed errors.
// [FromGraph] classifies them into codes at the boundary.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - CYCLIC_GRAPH: An operation that needs an acyclic graph got a cyclic one
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown format: %s", format)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Classify planning errors
//	g, err := inv.Graph()
//	if err != nil {
//	    return errors.FromGraph(err)
//	}
package errors

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	wio "github.com/matzehuels/waveplan/pkg/io"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidInventory Code = "INVALID_INVENTORY"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Graph shape errors
	ErrCodeCyclicGraph Code = "CYCLIC_GRAPH"

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
	if e.Cause != nil && e.Cause.Error() != e.Message {
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

// FromGraph classifies an error returned while loading, analyzing or
// scheduling a dependency graph. The result keeps err as its cause, so
// errors.Is still matches the original sentinels. An err that already
// carries a code is returned unchanged; nil stays nil.
func FromGraph(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Code: classify(err), Message: err.Error(), Cause: err}
}

func classify(err error) Code {
	switch {
	case errors.Is(err, dag.ErrDuplicateNode),
		errors.Is(err, dag.ErrUnknownNode),
		errors.Is(err, dag.ErrSelfDependency),
		errors.Is(err, dag.ErrInvalidNodeID):
		return ErrCodeInvalidInventory
	case errors.Is(err, analyze.ErrCyclicGraph):
		return ErrCodeCyclicGraph
	case errors.Is(err, wio.ErrMalformed):
		return ErrCodeInvalidFormat
	case errors.Is(err, wio.ErrUnsupportedFormat):
		return ErrCodeUnsupported
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeFileNotFound
	}
	// Scheduler invariant violations and anything unrecognized are bugs.
	return ErrCodeInternal
}
