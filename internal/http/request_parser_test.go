package http

import (
	"net/url"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "bare date is utc midnight",
			input: "2024-03-05",
			want:  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 keeps offset",
			input: "2024-03-05T23:30:00+01:00",
			want:  time.Date(2024, 3, 5, 23, 30, 0, 0, time.FixedZone("", 3600)),
		},
		{name: "garbage", input: "05/03/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseDate() = %v, want %v", got, tt.want)
			}
		})
	}

	got, _ := parseDate("2024-03-05T23:30:00+01:00")
	if _, off := got.Zone(); off != 3600 {
		t.Errorf("offset = %d, want 3600", off)
	}
}

func TestParseTransactionFilter(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f, err := parseTransactionFilter(url.Values{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.From.IsZero() || !f.To.IsZero() || f.MinAmount != nil || f.MaxAmount != nil || f.Limit != 0 {
			t.Errorf("expected zero filter, got %+v", f)
		}
	})

	t.Run("all parameters", func(t *testing.T) {
		q := url.Values{
			"from":       {"2024-01-01"},
			"to":         {"2024-01-31"},
			"category":   {" Food "},
			"min_amount": {"-100,50"},
			"max_amount": {"0"},
			"limit":      {"10"},
			"offset":     {"20"},
		}
		f, err := parseTransactionFilter(q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("From = %v", f.From)
		}
		wantTo := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		if !f.To.Equal(wantTo) {
			t.Errorf("To = %v, want %v", f.To, wantTo)
		}
		if f.Category != "Food" {
			t.Errorf("Category = %q", f.Category)
		}
		if f.MinAmount == nil || *f.MinAmount != -100.5 {
			t.Errorf("MinAmount = %v", f.MinAmount)
		}
		if f.MaxAmount == nil || *f.MaxAmount != 0 {
			t.Errorf("MaxAmount = %v", f.MaxAmount)
		}
		if f.Limit != 10 || f.Offset != 20 {
			t.Errorf("paging = %d/%d", f.Limit, f.Offset)
		}
	})

	for _, q := range []url.Values{
		{"from": {"yesterday"}},
		{"to": {"2024-13-01"}},
		{"min_amount": {"abc"}},
		{"limit": {"ten"}},
		{"offset": {"-1"}},
	} {
		if _, err := parseTransactionFilter(q); err == nil {
			t.Errorf("parseTransactionFilter(%v) expected error", q)
		}
	}
}
