// Package errors provides structured error types for c4x.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes and kinds for programmatic handling
//   - Source positions (1-based line and column) on diagram errors
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes are grouped by the pipeline stage that raises them:
//   - SYNTAX_ERROR: the DSL parser rejected a statement
//   - DUPLICATE_ID, UNRESOLVED_REFERENCE, UNKNOWN_ELEMENT_TYPE, UNSUPPORTED_ARROW:
//     the model builder rejected an otherwise well-formed diagram
//   - INVALID_*: caller input validation failures
//   - INTERNAL_*: unexpected internal errors
//
// # Kinds
//
// Every code belongs to exactly one [Kind]. Callers that only care whether a
// compilation failed on syntax or on semantics switch on [KindOf] instead of
// matching message text.
//
// # Usage
//
//	err := errors.At(errors.ErrCodeSyntax, errors.Pos{Line: 3, Column: 1}, "unexpected token %q", tok)
//	if errors.KindOf(err) == errors.KindSyntax {
//	    // Show the diagnostic at err's position
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Diagram syntax errors
	ErrCodeSyntax Code = "SYNTAX_ERROR"

	// Diagram semantic errors
	ErrCodeDuplicateID        Code = "DUPLICATE_ID"
	ErrCodeUnresolvedRef      Code = "UNRESOLVED_REFERENCE"
	ErrCodeUnknownElementType Code = "UNKNOWN_ELEMENT_TYPE"
	ErrCodeUnsupportedArrow   Code = "UNSUPPORTED_ARROW"
	ErrCodeInvalidNesting     Code = "INVALID_NESTING"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Transport errors
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind classifies errors by the compilation stage that produced them.
type Kind int

const (
	// KindOther is any error that is not a diagram error (I/O, config, ...).
	KindOther Kind = iota
	// KindSyntax is a parser rejection. It always carries a position.
	KindSyntax
	// KindSemantic is a model builder rejection.
	KindSemantic
	// KindLayoutDegeneracy marks a degraded layout result. Layout never
	// returns it as an error; it exists so diagnostics can report it.
	KindLayoutDegeneracy
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindLayoutDegeneracy:
		return "layout"
	default:
		return "other"
	}
}

var codeKinds = map[Code]Kind{
	ErrCodeSyntax:             KindSyntax,
	ErrCodeDuplicateID:        KindSemantic,
	ErrCodeUnresolvedRef:      KindSemantic,
	ErrCodeUnknownElementType: KindSemantic,
	ErrCodeUnsupportedArrow:   KindSemantic,
	ErrCodeInvalidNesting:     KindSemantic,
}

// Kind returns the kind the code belongs to.
func (c Code) Kind() Kind {
	return codeKinds[c]
}

// Pos is a 1-based source position. The zero value means "unknown".
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position points at a real line.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.Column <= 0 {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Error is a structured error with a code, an optional source position and
// an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Pos     Pos    // Source position (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Pos.IsValid() {
		msg = e.Pos.String() + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind returns the kind derived from the error code.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// At creates a new Error anchored at a source position.
func At(code Code, pos Pos, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
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

// KindOf returns the kind of the first *Error in err's chain, or KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindOther
}

// PosOf returns the source position of the first *Error in err's chain that
// carries one.
func PosOf(err error) (Pos, bool) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return Pos{}, false
		}
		if e.Pos.IsValid() {
			return e.Pos, true
		}
		err = e.Cause
	}
	return Pos{}, false
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

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
