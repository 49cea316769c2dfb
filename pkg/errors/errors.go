// Package errors defines the coded errors returned by glyphorbit packages.
//
// Every failure a user can act on carries a [Code] so the CLI can pick an
// exit status and callers can branch without matching strings. An error may
// also carry a hint: a short next step shown below the message (install a
// converter, list the valid shapes, create a config file).
//
//	err := errors.New(errors.ErrCodeInvalidShape, "unknown shape %q", name).
//		WithHint("valid shapes: %s", strings.Join(names, ", "))
//
//	if errors.Is(err, errors.ErrCodeInvalidShape) { ... }
//
// Codes are grouped by prefix. INVALID_* reports bad input and maps to exit
// status 2, everything else to 1.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidShape   Code = "INVALID_SHAPE"
	ErrCodeInvalidSpacing Code = "INVALID_SPACING"
	ErrCodeInvalidKnot    Code = "INVALID_KNOT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	ErrCodeDecodeFailed Code = "DECODE_FAILED"
	ErrCodeEmptyFont    Code = "EMPTY_FONT"
	ErrCodeMeshFailed   Code = "MESH_FAILED"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Input reports whether c is one of the INVALID_* codes.
func (c Code) Input() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error is a coded error with an optional cause and hint.
type Error struct {
	Code    Code
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// WithHint sets the hint and returns e.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = err
	return e
}

// each calls fn for every *Error in err's chain, outermost first, until fn
// returns false.
func each(err error, fn func(*Error) bool) {
	for err != nil {
		if e, ok := err.(*Error); ok && !fn(e) {
			return
		}
		err = errors.Unwrap(err)
	}
}

// Is reports whether any *Error in err's chain has code.
func Is(err error, code Code) bool {
	found := false
	each(err, func(e *Error) bool {
		found = e.Code == code
		return !found
	})
	return found
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Hint returns the first hint found in err's chain.
func Hint(err error) string {
	var hint string
	each(err, func(e *Error) bool {
		hint = e.Hint
		return hint == ""
	})
	return hint
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for input
// errors, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case GetCode(err).Input():
		return 2
	default:
		return 1
	}
}
