package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  Params
	}{
		{query: "", want: Params{Page: 1, Limit: 20, Offset: 0}},
		{query: "page=3&limit=10", want: Params{Page: 3, Limit: 10, Offset: 20}},
		{query: "page=0&limit=0", want: Params{Page: 1, Limit: 20, Offset: 0}},
		{query: "page=abc&limit=500", want: Params{Page: 1, Limit: 100, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, Parse(c))
		})
	}
}

func TestParseWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

	parse := func(query string) (Window, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return ParseWindow(c, now)
	}

	w, err := parse("")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, now, w.To)

	w, err = parse("from=2026-01-01&to=2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 31, 23, 59, 59, 999999999, time.UTC), w.To)

	w, err = parse("to=2026-02-01T12:00:00Z&from=2026-02-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, w.To.Hour())

	_, err = parse("from=yesterday")
	require.Error(t, err)

	_, err = parse("from=2026-02-01&to=2026-01-01")
	require.ErrorIs(t, err, ErrInvalidRange)
}
