// internal/apperrors/errors.go

// Package apperrors defines the error taxonomy shared by services and handlers.
// Messages are i18n keys; handlers translate them for the caller's language.
package apperrors

import (
	"errors"
	"net/http"
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError is a uniqueness violation. Existing holds the record that won.
type ConflictError struct {
	Message  string
	Existing interface{}
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UnauthorizedError is an ownership mismatch on a record the caller may not touch.
// It is reported to clients as not found.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Constructors
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}

func NewConflictError(msg string, existing interface{}) error {
	return &ConflictError{Message: msg, Existing: existing}
}

func NewUnauthorizedError(msg string) error {
	return &UnauthorizedError{Message: msg}
}

func NewInternalError(msg string, err error) error {
	return &InternalError{Message: msg, Err: err}
}

// Type checks
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

// AsConflict returns the conflict error in err's chain, if any.
func AsConflict(err error) (*ConflictError, bool) {
	var e *ConflictError
	ok := errors.As(err, &e)
	return e, ok
}

// HTTPStatus maps an error to the status code returned to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidationError(err), IsConflictError(err):
		return http.StatusBadRequest
	case IsNotFoundError(err), IsUnauthorizedError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine readable error code sent alongside the message.
func Code(err error) string {
	switch {
	case IsValidationError(err):
		return "VALIDATION_ERROR"
	case IsConflictError(err):
		return "CONFLICT"
	case IsNotFoundError(err), IsUnauthorizedError(err):
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// MessageKey returns the message of the first taxonomy error in err's chain,
// ignoring any wrapping context.
func MessageKey(err error) string {
	var (
		v *ValidationError
		n *NotFoundError
		c *ConflictError
		u *UnauthorizedError
		i *InternalError
	)
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.As(err, &n):
		return n.Message
	case errors.As(err, &c):
		return c.Message
	case errors.As(err, &u):
		return u.Message
	case errors.As(err, &i):
		return i.Message
	}
	return err.Error()
}
