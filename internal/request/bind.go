// Package request binds and validates incoming request data and reports failures in
// the error categories the HTTP error handler understands.
package request

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/poster-api/internal/apperror"
)

var registerOnce sync.Once

// RegisterValidator configures gin's validator engine to report fields by their
// json (or form) name instead of the Go field name. Safe to call repeatedly.
func RegisterValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Query binds the query string into dst and validates it.
func Query(c *gin.Context, dst any) error {
	RegisterValidator()
	return translate(c.ShouldBindQuery(dst))
}

// JSON binds the JSON body into dst and validates it.
func JSON(c *gin.Context, dst any) error {
	RegisterValidator()
	return translate(c.ShouldBindJSON(dst))
}

// translate maps binding errors: validator failures become validation errors,
// anything else (malformed JSON, non-numeric query values) is a 400 status error.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.FromValidator(verrs)
	}
	return apperror.Wrap(http.StatusBadRequest, err, "Invalid request: "+err.Error())
}
