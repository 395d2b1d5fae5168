package apperror

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue codes. They follow the vocabulary web clients of this API already parse.
const (
	CodeInvalidType      = "invalid_type"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeInvalidString    = "invalid_string"
	CodeCustom           = "custom"
)

// ErrValidation is the marker every ValidationError unwraps to.
var ErrValidation = errors.New("validation failed")

// Issue describes a single invalid input value.
type Issue struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

// ValidationError aggregates issues found while validating client input.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError returns nil when no issues are given.
func NewValidationError(issues ...Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// MergeValidation reports the issues of every validation error in errs as one
// ValidationError. nil entries are skipped. The first error that is not a validation
// failure is returned unchanged.
func MergeValidation(errs ...error) error {
	var issues []Issue
	for _, err := range errs {
		if err == nil {
			continue
		}
		ve, ok := AsValidationError(err)
		if !ok {
			return err
		}
		issues = append(issues, ve.Issues...)
	}
	return NewValidationError(issues...)
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if len(is.Path) == 0 {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, strings.Join(is.Path, ".")+": "+is.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AsValidationError extracts validation issues from err. Both ValidationError and
// validator.ValidationErrors (as produced by gin binding) are recognized.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Issues) > 0 {
		return ve, true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FromValidator(verrs), true
	}
	return nil, false
}

// FromValidator converts validator field errors. The path is taken from the
// namespace without the root struct name.
func FromValidator(errs validator.ValidationErrors) *ValidationError {
	issues := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		issues = append(issues, IssueFromField(fe, namespacePath(fe.Namespace())...))
	}
	return &ValidationError{Issues: issues}
}

// IssueFromField converts one validator field error. path overrides whatever the
// field error reports, which is empty for validator.Var checks.
func IssueFromField(fe validator.FieldError, path ...string) Issue {
	if len(path) == 0 && fe.Field() != "" {
		path = []string{fe.Field()}
	}
	if path == nil {
		path = []string{}
	}
	code, msg := describe(fe)
	return Issue{Code: code, Message: msg, Path: path}
}

func namespacePath(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) <= 1 {
		return parts
	}
	return parts[1:]
}

func describe(fe validator.FieldError) (string, string) {
	numeric := isNumericKind(fe)
	switch fe.Tag() {
	case "required":
		return CodeInvalidType, "Required"
	case "min", "gte":
		if numeric {
			return CodeTooSmall, fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
		}
		return CodeTooSmall, fmt.Sprintf("Must contain at least %s element(s)", fe.Param())
	case "gt":
		return CodeTooSmall, fmt.Sprintf("Number must be greater than %s", fe.Param())
	case "max", "lte":
		if numeric {
			return CodeTooBig, fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
		}
		return CodeTooBig, fmt.Sprintf("Must contain at most %s element(s)", fe.Param())
	case "lt":
		return CodeTooBig, fmt.Sprintf("Number must be less than %s", fe.Param())
	case "oneof":
		opts := strings.Fields(fe.Param())
		return CodeInvalidEnumValue, fmt.Sprintf("Invalid enum value. Expected %s, received '%v'",
			quoteJoin(opts), fe.Value())
	case "email", "url", "uuid", "startswith", "endswith":
		return CodeInvalidString, fmt.Sprintf("Invalid %s", fe.Tag())
	default:
		return CodeCustom, fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}

func isNumericKind(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func quoteJoin(opts []string) string {
	q := make([]string, len(opts))
	for i, o := range opts {
		q[i] = "'" + o + "'"
	}
	return strings.Join(q, " | ")
}
