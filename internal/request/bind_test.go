package request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/poster-api/internal/apperror"
	"github.com/maxviazov/poster-api/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchQuery struct {
	Term  string `form:"term" binding:"required"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc"`
	Size  int    `form:"size" binding:"omitempty,gte=1,lte=20"`
}

type createPost struct {
	Title  string   `json:"title" binding:"required,max=80"`
	Labels []string `json:"labels" binding:"max=3"`
}

func newContext(method, target, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	c.Request = r
	return c
}

func TestQuery_OK(t *testing.T) {
	var q searchQuery
	err := request.Query(newContext(http.MethodGet, "/search?term=go&order=asc&size=5", ""), &q)
	require.NoError(t, err)
	assert.Equal(t, searchQuery{Term: "go", Order: "asc", Size: 5}, q)
}

func TestQuery_ValidationUsesTagNames(t *testing.T) {
	var q searchQuery
	err := request.Query(newContext(http.MethodGet, "/search?order=up&size=30", ""), &q)

	ve, ok := apperror.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	codes := map[string]string{}
	for _, is := range ve.Issues {
		codes[strings.Join(is.Path, ".")] = is.Code
	}
	assert.Equal(t, map[string]string{
		"term":  apperror.CodeInvalidType,
		"order": apperror.CodeInvalidEnumValue,
		"size":  apperror.CodeTooBig,
	}, codes)
}

func TestQuery_UndecodableValueIsBadRequest(t *testing.T) {
	var q searchQuery
	err := request.Query(newContext(http.MethodGet, "/search?term=go&size=many", ""), &q)

	sc, ok := apperror.AsStatusError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, http.StatusBadRequest, sc.StatusCode())
	assert.False(t, apperror.IsStatusError(nil))
}

func TestJSON(t *testing.T) {
	var body createPost
	err := request.JSON(newContext(http.MethodPost, "/posts", `{"title":"hello","labels":["a"]}`), &body)
	require.NoError(t, err)
	assert.Equal(t, "hello", body.Title)
}

func TestJSON_ValidationReportsEveryField(t *testing.T) {
	var body createPost
	err := request.JSON(newContext(http.MethodPost, "/posts", `{"labels":["a","b","c","d"]}`), &body)
	ve, ok := apperror.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	require.Len(t, ve.Issues, 2)
	assert.Equal(t, []string{"title"}, ve.Issues[0].Path)
	assert.Equal(t, apperror.CodeInvalidType, ve.Issues[0].Code)
	assert.Equal(t, []string{"labels"}, ve.Issues[1].Path)
	assert.Equal(t, apperror.CodeTooBig, ve.Issues[1].Code)
}

func TestJSON_MalformedBodyIsBadRequest(t *testing.T) {
	var body createPost
	err := request.JSON(newContext(http.MethodPost, "/posts", `{"title":`), &body)
	sc, ok := apperror.AsStatusError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, http.StatusBadRequest, sc.StatusCode())
}
