// Package apperror defines the error categories understood by the HTTP error handler:
// validation failures and errors annotated with the status code they should produce.
// Everything else is treated as an internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// StatusCoder is implemented by errors that carry their own HTTP status.
type StatusCoder interface {
	error
	StatusCode() int
}

// StatusError is an application error explicitly annotated with an HTTP status code.
type StatusError struct {
	Code    int
	Message string
	cause   error
}

// New builds a status error with a fixed message.
func New(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

// Newf builds a status error with a formatted message.
func Newf(code int, format string, args ...any) *StatusError {
	return &StatusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a status code. The message defaults to err's text.
func Wrap(code int, err error, message string) *StatusError {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &StatusError{Code: code, Message: message, cause: err}
}

func (e *StatusError) Error() string   { return e.Message }
func (e *StatusError) StatusCode() int { return e.Code }
func (e *StatusError) Unwrap() error   { return e.cause }

// NotFound is raised for unmatched routes.
func NotFound(format string, args ...any) *StatusError {
	return Newf(http.StatusNotFound, format, args...)
}

// AsStatusError reports the first error in err's chain that carries a status code.
func AsStatusError(err error) (StatusCoder, bool) {
	if err == nil {
		return nil, false
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}

// IsStatusError reports whether err's chain carries a status code.
func IsStatusError(err error) bool {
	_, ok := AsStatusError(err)
	return ok
}

// Trace renders err with its stack when it was created or wrapped by pkg/errors.
// Errors without a recorded stack render as their message.
func Trace(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%+v", err))
}

// WithStack records the caller's stack on err.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}
