// Package core provides the domain types of the finance service.
//
// This file handles conversion between the float amounts used by the
// analysis pipeline and the integer cents used for persistence.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a signed amount stored as whole cents.
type Money struct {
	Cents int64
}

var ErrInvalidAmount = errors.New("invalid amount")

// maxAmount keeps cents comfortably inside int64 after shifting.
var maxAmount = decimal.New(1, 13)

// ParseAmount converts a decimal string to Money.
//
// Both dot (12.34) and comma (12,34) separators are accepted and a leading
// sign is honoured. Rounding is half away from zero on the third decimal:
//
//	ParseAmount("12.345")  -> 1235 cents
//	ParseAmount("-12,344") -> -1234 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).Round(0).IntPart()}, nil
}

// FromFloat rounds a float amount to the nearest cent.
func FromFloat(f float64) Money {
	return Money{Cents: decimal.NewFromFloat(f).Shift(2).Round(0).IntPart()}
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	f, _ := decimal.New(m.Cents, -2).Float64()
	return f
}

// String formats the amount with two decimals, e.g. "-12.50".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Cents == 0 }
