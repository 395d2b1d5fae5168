// Package pagination turns raw limit/offset query parameters into bounded paging
// controls and wraps result sets into a uniform page envelope.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/poster-api/internal/apperror"
)

const (
	// DefaultMaxLimit is used when a schema is built with a non-positive maximum.
	DefaultMaxLimit int64 = 50

	// MaxSafeInteger is the largest integer a JSON number holds exactly (2^53-1).
	MaxSafeInteger int64 = 1<<53 - 1

	LimitParam  = "limit"
	OffsetParam = "offset"
)

var validate = validator.New()

// Pager holds validated paging controls.
type Pager struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// Schema describes how limit and offset are coerced, bounded and defaulted.
type Schema struct {
	maxLimit     int64
	defaultLimit int64
	limitRule    string
	offsetRule   string
}

// PagerSchema bounds limit to [1, maxLimit] and defaults it to ceil(maxLimit/2).
func PagerSchema(maxLimit int64) Schema {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return newSchema(maxLimit, maxLimit/2+maxLimit%2)
}

// UnlimitedPagerSchema keeps the coercion and defaulting rules of PagerSchema but lets
// limit go up to MaxSafeInteger, which is also its default.
func UnlimitedPagerSchema() Schema {
	return newSchema(MaxSafeInteger, MaxSafeInteger)
}

func newSchema(maxLimit, defaultLimit int64) Schema {
	return Schema{
		maxLimit:     maxLimit,
		defaultLimit: defaultLimit,
		limitRule:    fmt.Sprintf("gte=1,lte=%d", maxLimit),
		offsetRule:   "gte=0",
	}
}

func (s Schema) MaxLimit() int64     { return s.maxLimit }
func (s Schema) DefaultLimit() int64 { return s.defaultLimit }

// Parse reads limit and offset from query values. A missing parameter takes its
// default; anything present must coerce to an integer within bounds. All problems are
// reported together as an *apperror.ValidationError.
func (s Schema) Parse(values url.Values) (Pager, error) {
	s = s.orDefault()

	var issues []apperror.Issue
	limit, limitIssues := s.field(values, LimitParam, s.defaultLimit, s.limitRule)
	issues = append(issues, limitIssues...)
	offset, offsetIssues := s.field(values, OffsetParam, 0, s.offsetRule)
	issues = append(issues, offsetIssues...)

	if err := apperror.NewValidationError(issues...); err != nil {
		return Pager{}, err
	}
	return Pager{Limit: limit, Offset: offset}, nil
}

// Bind parses the paging controls of the request's query string.
func (s Schema) Bind(c *gin.Context) (Pager, error) {
	return s.Parse(c.Request.URL.Query())
}

// orDefault makes the zero Schema behave like PagerSchema(DefaultMaxLimit).
func (s Schema) orDefault() Schema {
	if s.maxLimit <= 0 {
		return PagerSchema(DefaultMaxLimit)
	}
	return s
}

func (s Schema) field(values url.Values, name string, def int64, rule string) (int64, []apperror.Issue) {
	raw, ok := values[name]
	if !ok || len(raw) == 0 {
		return def, nil
	}
	n, issue := coerce(name, raw[0])
	if issue != nil {
		return 0, []apperror.Issue{*issue}
	}
	if err := validate.Var(n, rule); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return 0, []apperror.Issue{{Code: apperror.CodeCustom, Message: err.Error(), Path: []string{name}}}
		}
		issues := make([]apperror.Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, apperror.IssueFromField(fe, name))
		}
		return 0, issues
	}
	return n, nil
}

// coerce mirrors numeric coercion of query strings: surrounding blanks are ignored
// and an empty value reads as zero.
func coerce(name, raw string) (int64, *apperror.Issue) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		code, msg := apperror.CodeTooBig, "Number must be less than or equal to 9223372036854775807"
		if strings.HasPrefix(v, "-") {
			code, msg = apperror.CodeTooSmall, "Number must be greater than or equal to -9223372036854775808"
		}
		return 0, &apperror.Issue{Code: code, Message: msg, Path: []string{name}}
	}
	return 0, &apperror.Issue{
		Code:    apperror.CodeInvalidType,
		Message: fmt.Sprintf("Expected integer, received %q", raw),
		Path:    []string{name},
	}
}
