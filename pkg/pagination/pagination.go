package pagination

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

var ErrInvalidRange = errors.New("from must not be after to")

// Window is an inclusive time range taken from the from/to query parameters.
type Window struct {
	From time.Time
	To   time.Time
}

// ParseWindow reads from/to as YYYY-MM-DD or RFC3339. A missing from defaults
// to the first day of now's month, a missing to defaults to now. A date-only
// to covers the whole day.
func ParseWindow(c *gin.Context, now time.Time) (Window, error) {
	w := Window{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   now,
	}
	if v := c.Query("from"); v != "" {
		t, _, err := parseTime(v)
		if err != nil {
			return Window{}, err
		}
		w.From = t
	}
	if v := c.Query("to"); v != "" {
		t, dateOnly, err := parseTime(v)
		if err != nil {
			return Window{}, err
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		w.To = t
	}
	if w.From.After(w.To) {
		return Window{}, ErrInvalidRange
	}
	return w, nil
}

func parseTime(v string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}
