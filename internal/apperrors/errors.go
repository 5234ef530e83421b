// Package apperrors defines the error taxonomy shared by the service and
// API layers. Every failure a route can surface is classified as one of
// the codes below, and the API layer maps codes to HTTP statuses.
package apperrors

import (
	"errors"
	"net/http"
)

// Code identifies the class of a domain error
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeConflict   Code = "CONFLICT"
	CodeNotFound   Code = "NOT_FOUND"
	CodeAuth       Code = "UNAUTHORIZED"
	CodeUnexpected Code = "INTERNAL_ERROR"
)

// Error is a classified domain error
type Error struct {
	ErrCode Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Code() Code {
	return e.ErrCode
}

// Constructors for each class
func Validation(message string) error {
	return &Error{ErrCode: CodeValidation, Message: message}
}

func Conflict(message string) error {
	return &Error{ErrCode: CodeConflict, Message: message}
}

func NotFound(message string) error {
	return &Error{ErrCode: CodeNotFound, Message: message}
}

func Auth(message string) error {
	return &Error{ErrCode: CodeAuth, Message: message}
}

// CodeOf extracts the code from an error chain. Unclassified errors are
// reported as CodeUnexpected.
func CodeOf(err error) Code {
	var ce interface{ Code() Code }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return CodeUnexpected
}

// HTTPStatus maps an error to the HTTP status its route should return.
// Lifecycle guard failures are client errors, not conflicts of the 409
// kind: the caller holds a stale view and must re-fetch.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
