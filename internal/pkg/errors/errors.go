// Package errors provides the kind-tagged error model for the VTN.
//
// Every failure that crosses a package boundary is an *AppError carrying one
// of the kinds below. Each kind maps to exactly one HTTP status; the HTTP
// adapter serializes the error as an OpenADR Problem envelope and never
// leaks internal detail for Internal errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. The set is closed; repositories and services
// must not invent new kinds.
type Kind string

const (
	KindInvalidRequest  Kind = "INVALID_REQUEST"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUnprocessable   Kind = "UNPROCESSABLE_ENTITY"
	KindInternal        Kind = "INTERNAL"
	KindGatewayTimeout  Kind = "GATEWAY_TIMEOUT"
)

// HTTPStatus returns the single status code a kind maps to.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the Problem title for a kind.
func (k Kind) Title() string {
	return http.StatusText(k.HTTPStatus())
}

// AppError is a structured application error.
type AppError struct {
	Kind Kind

	// Detail is a human-readable description safe to return to the client.
	// Generic for Internal errors.
	Detail string

	// Err is the wrapped underlying error, logged but never serialized.
	Err error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError of the given kind.
func New(kind Kind, detail string) *AppError {
	return &AppError{Kind: kind, Detail: detail}
}

// Wrap attaches an underlying error to a new AppError.
func Wrap(err error, kind Kind, detail string) *AppError {
	return &AppError{Kind: kind, Detail: detail, Err: err}
}

// InvalidRequest creates a 400 error.
func InvalidRequest(detail string) *AppError {
	return New(KindInvalidRequest, detail)
}

// InvalidRequestf creates a 400 error with a formatted detail.
func InvalidRequestf(format string, args ...any) *AppError {
	return New(KindInvalidRequest, fmt.Sprintf(format, args...))
}

// Unauthenticated creates a 401 error.
func Unauthenticated(detail string) *AppError {
	return New(KindUnauthenticated, detail)
}

// Forbidden creates a 403 error. Policy denials use a fixed detail so the
// response never explains which rule failed.
func Forbidden() *AppError {
	return New(KindForbidden, "insufficient permissions")
}

// NotFound creates a 404 error. Objects hidden by a visibility predicate
// produce the same error as truly absent ones.
func NotFound() *AppError {
	return New(KindNotFound, "object not found")
}

// Conflict creates a 409 error.
func Conflict(detail string) *AppError {
	return New(KindConflict, detail)
}

// Unprocessable creates a 422 error for referential failures.
func Unprocessable(detail string) *AppError {
	return New(KindUnprocessable, detail)
}

// Internal wraps an unexpected failure. The detail shown to clients is
// generic; the wrapped error goes to the log.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Detail: "an internal error occurred", Err: err}
}

// GatewayTimeout creates a 504 error for expired request deadlines.
func GatewayTimeout() *AppError {
	return New(KindGatewayTimeout, "request deadline exceeded")
}

// AsAppError checks whether err is (or wraps) an AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
