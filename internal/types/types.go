// =============================================================================
// CBL to JSON Converter - Shared Types
// =============================================================================
//
// This package contains the error taxonomy shared by the parser, the output
// writer and the command layer. It lives on its own to avoid import cycles:
//   - cbl        (NotFound, Malformed)
//   - specs      (Malformed when re-reading an emitted document)
//   - utils      (WriteFailure)
//   - converter  (passes all of the above through unchanged)
//
// Every kind is terminal for the current invocation. Callers match kinds with
// errors.Is(err, types.ErrMalformed) and so on.
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

var (
	// ErrNotFound means the input path does not resolve to a readable file.
	ErrNotFound = errors.New("the provided file could not be found or read")

	// ErrMalformed means the input does not conform to the expected schema.
	ErrMalformed = errors.New("the provided file is not a valid CBL file, or is malformed")

	// ErrWriteFailure means the output destination could not be created or written.
	ErrWriteFailure = errors.New("failed to write to the provided file path")
)

// =============================================================================
// ERROR STRUCTURE
// =============================================================================

// Error carries one of the kinds above together with the path involved and
// the underlying cause (decoder message, syscall error, ...).
type Error struct {
	// Kind is one of ErrNotFound, ErrMalformed or ErrWriteFailure.
	Kind error

	// Path is the file the failure relates to. Empty for in-memory input.
	Path string

	// Err is the underlying cause. May be nil.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NotFound wraps err as an ErrNotFound failure for path.
func NotFound(path string, err error) *Error {
	return &Error{Kind: ErrNotFound, Path: path, Err: err}
}

// Malformed wraps err as an ErrMalformed failure for path.
func Malformed(path string, err error) *Error {
	return &Error{Kind: ErrMalformed, Path: path, Err: err}
}

// Malformedf builds an ErrMalformed failure from a formatted message.
func Malformedf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrMalformed, Err: fmt.Errorf(format, args...)}
}

// WriteFailure wraps err as an ErrWriteFailure failure for path.
func WriteFailure(path string, err error) *Error {
	return &Error{Kind: ErrWriteFailure, Path: path, Err: err}
}
