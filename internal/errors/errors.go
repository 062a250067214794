// Package errors defines the error kinds the sync pipeline reports.
//
// Every component returns one of four kinds; nothing recovers internally and the
// command layer prints the error and exits non-zero. Check a kind with errors.Is:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // the requested bulk dataset or cache file is missing
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code identifies the kind of failure.
type Code string

const (
	CodeNetwork  Code = "NETWORK"
	CodeDecode   Code = "DECODE"
	CodeNotFound Code = "NOT_FOUND"
	CodeIO       Code = "IO"
)

// Error is a pipeline error with a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors for use with errors.Is().
var (
	ErrNetwork  = &Error{Code: CodeNetwork, Message: "network error"}
	ErrDecode   = &Error{Code: CodeDecode, Message: "decode error"}
	ErrNotFound = &Error{Code: CodeNotFound, Message: "not found"}
	ErrIO       = &Error{Code: CodeIO, Message: "i/o error"}
)

// Network wraps a connection or transport level failure.
func Network(msg string, cause error) *Error {
	return &Error{Code: CodeNetwork, Message: msg, cause: cause}
}

// Decode wraps malformed JSON or a payload of unexpected shape.
func Decode(msg string, cause error) *Error {
	return &Error{Code: CodeDecode, Message: msg, cause: cause}
}

// NotFound reports a missing catalog entry or cache file.
func NotFound(msg string, cause error) *Error {
	return &Error{Code: CodeNotFound, Message: msg, cause: cause}
}

// IO wraps a filesystem failure.
func IO(msg string, cause error) *Error {
	return &Error{Code: CodeIO, Message: msg, cause: cause}
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
