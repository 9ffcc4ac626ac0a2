// Package apperr defines the error taxonomy shared by services and handlers.
// Every error that crosses the service boundary is classified by a Kind that
// maps to exactly one HTTP status.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies an error.
type Kind int

const (
	// KindInternal covers unclassified failures.
	KindInternal Kind = iota
	// KindValidation covers malformed, out-of-range, or missing input.
	KindValidation
	// KindNotFound covers lookups of unknown identifiers.
	KindNotFound
	// KindMethodNotAllowed covers a wrong verb on a matched path.
	KindMethodNotAllowed
	// KindIO covers persistence failures.
	KindIO
)

// Error is a classified error with an optional structured detail payload.
type Error struct {
	Kind    Kind
	Message string
	Details any
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// HTTPStatus maps the error kind to its HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a validation error. details may carry field-level
// context and is serialized verbatim into the error response.
func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error for the given resource and id.
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// MethodNotAllowed creates a method-not-allowed error.
func MethodNotAllowed(method string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: fmt.Sprintf("method not allowed: %s", method)}
}

// IO wraps a persistence failure.
func IO(message string, err error) *Error {
	return &Error{Kind: KindIO, Message: message, err: err}
}

// Internal wraps an unclassified failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, err: err}
}
