// Package apperr carries the HTTP status and machine code of a failure from
// the layer that detects it to the handler that reports it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound        = "not_found"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeValidation      = "validation"
	CodeConflict        = "conflict"
	CodeUpstream        = "upstream"
	CodeInternal        = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Unauthenticated(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, CodeUnauthenticated, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func Upstream(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstream, err)
}

// From returns the *Error inside err, or an internal error wrapping it.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
