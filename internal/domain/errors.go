package domain

import (
	"errors"
	"fmt"
)

// Error codes returned at the API boundary
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeStore        = "STORE_ERROR"
	CodeMail         = "MAIL_ERROR"
)

// Error is an application error carrying a code the HTTP layer maps to a status
type Error struct {
	Code    string // One of the Code* constants
	Message string // Safe to show to API callers
	Err     error  // Underlying cause, logged but never returned to callers
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

// Unwrap exposes the cause to errors.Is/As
func (e *Error) Unwrap() error { return e.Err }

// Validation builds a VALIDATION_ERROR
func Validation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }

// Conflict builds a CONFLICT error
func Conflict(msg string) *Error { return &Error{Code: CodeConflict, Message: msg} }

// NotFound builds a NOT_FOUND error
func NotFound(msg string) *Error { return &Error{Code: CodeNotFound, Message: msg} }

// Unauthorized builds an UNAUTHORIZED error
func Unauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Message: msg} }

// Forbidden builds a FORBIDDEN error
func Forbidden(msg string) *Error { return &Error{Code: CodeForbidden, Message: msg} }

// StoreFailure wraps an unexpected persistence error
func StoreFailure(msg string, err error) *Error {
	return &Error{Code: CodeStore, Message: msg, Err: err}
}

// MailFailure wraps a mail delivery error
func MailFailure(msg string, err error) *Error {
	return &Error{Code: CodeMail, Message: msg, Err: err}
}

// CodeOf returns the code of an application error, or CodeStore for anything else
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStore
}

// IsCode reports whether err is an application error with the given code
func IsCode(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
