package utils

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindExternal     ErrorKind = "external"
	ErrorKindLocked       ErrorKind = "locked"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
)

// AppError is the structured error every state-changing operation returns.
// Callers see kind + message; wrapped causes stay internal.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewExternalError(message string, err error) *AppError {
	return &AppError{Kind: ErrorKindExternal, Message: message, Err: err}
}

func NewLockedError(message string) *AppError {
	return &AppError{Kind: ErrorKindLocked, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: ErrorKindNotFound, Message: resource + " not found"}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: ErrorKindUnauthorized, Message: message}
}

// KindOf extracts the error kind, defaulting to external for untyped errors
// so no internal detail leaks to callers.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindExternal
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
