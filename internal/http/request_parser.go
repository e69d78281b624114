package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fincoach/internal/core"
)

var errInvalidUserID = errors.New("invalid user id")

// userIDParam reads the {userID} path segment.
func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidUserID
	}
	return id, nil
}

// parseDate accepts RFC 3339 timestamps, keeping their offset, or a bare
// YYYY-MM-DD date taken as UTC midnight.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// parseTransactionFilter builds a filter from list query parameters. Empty
// parameters are ignored; malformed ones are errors.
func parseTransactionFilter(q url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		// a bare date includes the whole day
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	f.Category = core.Sanitize(q.Get("category"))

	var err error
	if f.MinAmount, err = optionalFloat(q, "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = optionalFloat(q, "max_amount"); err != nil {
		return f, err
	}
	if f.Limit, err = optionalInt(q, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = optionalInt(q, "offset"); err != nil {
		return f, err
	}
	if f.Offset < 0 {
		return f, errors.New("offset: must not be negative")
	}
	return f, nil
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	m, err := core.ParseAmount(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	f := m.Float()
	return &f, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: must be an integer", key)
	}
	return n, nil
}
