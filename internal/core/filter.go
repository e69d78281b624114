package core

import "time"

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// TransactionFilter narrows a transaction listing. Zero values mean "no bound".
type TransactionFilter struct {
	From      time.Time
	To        time.Time
	Category  string
	MinAmount *float64
	MaxAmount *float64
	Limit     int
	Offset    int
}

// Normalize clamps paging to the supported window.
func (f TransactionFilter) Normalize() TransactionFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Match reports whether t satisfies every bound of the filter. Paging is not applied.
func (f TransactionFilter) Match(t Transaction) bool {
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	return true
}
