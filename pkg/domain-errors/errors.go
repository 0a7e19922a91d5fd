// Package domainerrors defines the coded error taxonomy shared by services
// and the HTTP layer. Handlers translate codes to status codes in one place
// so raw collaborator errors never leak onto the wire.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport-level translation.
type Code string

const (
	// CodeNotFound marks a single-entity lookup that matched no row.
	CodeNotFound Code = "not_found"
	// CodeBadRequest marks a request the caller can fix.
	CodeBadRequest Code = "bad_request"
	// CodeUnavailable marks an upstream collaborator failure.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks an opaque server-side failure, including all
	// storage errors.
	CodeInternal Code = "internal"
)

// Error is a coded error. Message is safe to log; the wrapped cause may
// contain collaborator internals and is never serialized.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
