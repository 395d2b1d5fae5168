// Package response centralizes HTTP response shapes and helpers.
// Every error leaving a handler goes through MapError so clients see one envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/poster-api/internal/apperror"
)

const (
	ErrorTypeValidation = "validation"
	ErrorTypeMessage    = "message"

	InternalErrorMessage = "Internal server error"
)

// ErrorPayload is the canonical error envelope returned by the API.
// Validation payloads carry errors only; message payloads always carry message.
type ErrorPayload struct {
	ErrorType    string           `json:"errorType" doc:"Either validation or message"`
	Message      string           `json:"message,omitempty"`
	Errors       []apperror.Issue `json:"errors,omitempty"`
	Trace        string           `json:"trace,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

type validationBody struct {
	ErrorType string           `json:"errorType"`
	Errors    []apperror.Issue `json:"errors"`
}

type messageBody struct {
	ErrorType    string `json:"errorType"`
	Message      string `json:"message"`
	Trace        string `json:"trace,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (p ErrorPayload) MarshalJSON() ([]byte, error) {
	if p.ErrorType == ErrorTypeValidation {
		issues := p.Errors
		if issues == nil {
			issues = []apperror.Issue{}
		}
		return json.Marshal(validationBody{ErrorType: p.ErrorType, Errors: issues})
	}
	return json.Marshal(messageBody{
		ErrorType:    p.ErrorType,
		Message:      p.Message,
		Trace:        p.Trace,
		ErrorMessage: p.ErrorMessage,
	})
}

// MapError classifies err into an HTTP status and payload:
// validation failures are 400, errors carrying a status keep it, anything else is 500.
// Diagnostic fields on 500s are filled only when debug is set.
func MapError(err error, debug bool) (int, ErrorPayload) {
	if ve, ok := apperror.AsValidationError(err); ok {
		return http.StatusBadRequest, ErrorPayload{
			ErrorType: ErrorTypeValidation,
			Errors:    ve.Issues,
		}
	}

	if sc, ok := apperror.AsStatusError(err); ok {
		if code := sc.StatusCode(); code >= 400 && code <= 599 {
			return code, ErrorPayload{
				ErrorType: ErrorTypeMessage,
				Message:   sc.Error(),
			}
		}
	}

	payload := ErrorPayload{
		ErrorType: ErrorTypeMessage,
		Message:   InternalErrorMessage,
	}
	if debug && err != nil {
		payload.Trace = apperror.Trace(err)
		payload.ErrorMessage = err.Error()
	}
	return http.StatusInternalServerError, payload
}

// IsInternal reports whether err would be answered with a 5xx status.
func IsInternal(err error) bool {
	status, _ := MapError(err, false)
	return status >= http.StatusInternalServerError
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error, debug bool) {
	status, payload := MapError(err, debug)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
