package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/poster-api/internal/apperror"
	"github.com/maxviazov/poster-api/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerSchema_Defaults(t *testing.T) {
	cases := []struct {
		maxLimit    int64
		wantDefault int64
		wantMax     int64
	}{
		{50, 25, 50},
		{51, 26, 51},
		{1, 1, 1},
		{2, 1, 2},
		{100, 50, 100},
		{0, 25, 50},
		{-3, 25, 50},
	}
	for _, tc := range cases {
		s := pagination.PagerSchema(tc.maxLimit)
		p, err := s.Parse(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, pagination.Pager{Limit: tc.wantDefault, Offset: 0}, p, "maxLimit=%d", tc.maxLimit)
		assert.Equal(t, tc.wantMax, s.MaxLimit())
	}
}

func TestPagerSchema_Parse(t *testing.T) {
	s := pagination.PagerSchema(50)
	cases := []struct {
		name      string
		query     string
		want      pagination.Pager
		wantCodes map[string]string
	}{
		{name: "explicit", query: "limit=10&offset=20", want: pagination.Pager{Limit: 10, Offset: 20}},
		{name: "bounds inclusive", query: "limit=50&offset=0", want: pagination.Pager{Limit: 50}},
		{name: "lower bound", query: "limit=1", want: pagination.Pager{Limit: 1}},
		{name: "whitespace", query: "limit=+7+&offset=%203", want: pagination.Pager{Limit: 7, Offset: 3}},
		{name: "only offset", query: "offset=5", want: pagination.Pager{Limit: 25, Offset: 5}},
		{name: "first value wins", query: "limit=3&limit=99", want: pagination.Pager{Limit: 3}},
		{name: "limit too big", query: "limit=51", wantCodes: map[string]string{"limit": apperror.CodeTooBig}},
		{name: "limit zero", query: "limit=0", wantCodes: map[string]string{"limit": apperror.CodeTooSmall}},
		{name: "limit empty", query: "limit=", wantCodes: map[string]string{"limit": apperror.CodeTooSmall}},
		{name: "negative offset", query: "offset=-1", wantCodes: map[string]string{"offset": apperror.CodeTooSmall}},
		{name: "not a number", query: "limit=ten", wantCodes: map[string]string{"limit": apperror.CodeInvalidType}},
		{name: "fraction", query: "offset=1.5", wantCodes: map[string]string{"offset": apperror.CodeInvalidType}},
		{name: "overflow", query: "offset=99999999999999999999", wantCodes: map[string]string{"offset": apperror.CodeTooBig}},
		{
			name:  "both invalid",
			query: "limit=-4&offset=-2",
			wantCodes: map[string]string{
				"limit":  apperror.CodeTooSmall,
				"offset": apperror.CodeTooSmall,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			got, err := s.Parse(q)
			if tc.wantCodes == nil {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}

			ve, ok := apperror.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			codes := map[string]string{}
			for _, is := range ve.Issues {
				require.Len(t, is.Path, 1)
				codes[is.Path[0]] = is.Code
			}
			assert.Equal(t, tc.wantCodes, codes)
		})
	}
}

func TestPagerSchema_TooBigMessage(t *testing.T) {
	_, err := pagination.PagerSchema(50).Parse(url.Values{"limit": {"80"}})
	ve, ok := apperror.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, apperror.Issue{
		Code:    apperror.CodeTooBig,
		Message: "Number must be less than or equal to 50",
		Path:    []string{"limit"},
	}, ve.Issues[0])
}

func TestUnlimitedPagerSchema(t *testing.T) {
	s := pagination.UnlimitedPagerSchema()

	p, err := s.Parse(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, pagination.Pager{Limit: pagination.MaxSafeInteger}, p)
	assert.Equal(t, int64(9007199254740991), s.MaxLimit())

	p, err = s.Parse(url.Values{"limit": {"100000"}, "offset": {"7"}})
	require.NoError(t, err)
	assert.Equal(t, pagination.Pager{Limit: 100000, Offset: 7}, p)

	_, err = s.Parse(url.Values{"limit": {"9007199254740992"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = s.Parse(url.Values{"limit": {"0"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestZeroSchemaUsesDefaultMaximum(t *testing.T) {
	var s pagination.Schema
	p, err := s.Parse(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, pagination.Pager{Limit: 25}, p)
}

func TestSchema_Bind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/posts?limit=4&offset=8", nil)

	p, err := pagination.PagerSchema(10).Bind(c)
	require.NoError(t, err)
	assert.Equal(t, pagination.Pager{Limit: 4, Offset: 8}, p)
}
