package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure so handlers can map it to an HTTP status.
type ErrorKind int

const (
	// KindValidation marks malformed or missing required input.
	KindValidation ErrorKind = iota
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindConflict marks an entity that is not in the state required for the
	// requested transition, or a duplicate unique field.
	KindConflict
	// KindInternal marks persistence or other unexpected failures.
	KindInternal
)

// AppError is the error type carried across service boundaries. Handlers
// translate it into the uniform {"success":false,"message":...} envelope.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HTTPStatus returns the response status code for the error kind.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates an AppError for malformed input.
func ValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError creates an AppError for a missing entity.
func NotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ConflictError creates an AppError for an illegal state transition or a
// duplicate unique field.
func ConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InternalError wraps an unexpected failure.
func InternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// ErrorStatus maps any error to an HTTP status and client-facing message.
// Unknown error types are reported as internal failures without leaking
// their details.
func ErrorStatus(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			return http.StatusInternalServerError, "internal server error"
		}
		return appErr.HTTPStatus(), appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
