package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	good := Transaction{Amount: -12.5, Description: "lunch", Category: "Food", Date: now}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Amount: 1, Description: "", Category: "c", Date: now}, ErrEmptyDescription},
		{Transaction{Amount: 1, Description: strings.Repeat("x", 201), Category: "c", Date: now}, ErrDescriptionTooLong},
		{Transaction{Amount: 1, Description: "a", Category: " ", Date: now}, ErrEmptyCategory},
		{Transaction{Amount: 0, Description: "a", Category: "c", Date: now}, ErrZeroAmount},
		{Transaction{Amount: 1, Description: "a", Category: "c"}, ErrInvalidDate},
	}
	for i, tc := range bads {
		err := tc.tx.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !IsValidationError(err) {
			t.Fatalf("case %d: %v not recognised as validation error", i, err)
		}
	}
}

func TestBudgetAndAccountValidate(t *testing.T) {
	if err := (Budget{Category: "Food", Amount: 300}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{Category: "Food", Amount: 0}).Validate(); !errors.Is(err, ErrNegativeBudget) {
		t.Fatalf("expected ErrNegativeBudget, got %v", err)
	}
	if err := (Account{Name: "Checking", Balance: -10}).Validate(); err != nil {
		t.Fatalf("negative balance should be allowed, got %v", err)
	}
	if err := (Account{Name: ""}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestUserValidateCreditScore(t *testing.T) {
	score := func(v int) *int { return &v }
	cases := []struct {
		user User
		ok   bool
	}{
		{User{Username: "ana"}, true},
		{User{Username: "ana", CreditScore: score(720)}, true},
		{User{Username: "ana", CreditScore: score(299)}, false},
		{User{Username: "ana", CreditScore: score(851)}, false},
		{User{Username: ""}, false},
	}
	for i, tc := range cases {
		err := tc.user.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("  caf\x00e\x07 bill\t "); got != "cafe bill" {
		t.Fatalf("Sanitize = %q", got)
	}
	if IsValidationError(errors.New("boom")) {
		t.Fatal("arbitrary error should not be a validation error")
	}
}

func TestTransactionFilter_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         TransactionFilter
		wantLimit  int
		wantOffset int
	}{
		{"defaults", TransactionFilter{}, DefaultPageSize, 0},
		{"clamped", TransactionFilter{Limit: 500, Offset: -3}, MaxPageSize, 0},
		{"kept", TransactionFilter{Limit: 10, Offset: 20}, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
				t.Errorf("Normalize() = limit %d offset %d, want %d %d", got.Limit, got.Offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestTransactionFilter_Match(t *testing.T) {
	day := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tx := Transaction{Amount: -40, Category: "food", Date: day}
	lo, hi := -50.0, -10.0
	lowMax := -45.0

	tests := []struct {
		name   string
		filter TransactionFilter
		want   bool
	}{
		{"empty filter", TransactionFilter{}, true},
		{"inside range", TransactionFilter{From: day.AddDate(0, 0, -1), To: day.AddDate(0, 0, 1)}, true},
		{"before from", TransactionFilter{From: day.AddDate(0, 0, 1)}, false},
		{"after to", TransactionFilter{To: day.AddDate(0, 0, -1)}, false},
		{"category match", TransactionFilter{Category: "food"}, true},
		{"category mismatch", TransactionFilter{Category: "rent"}, false},
		{"amount bounds", TransactionFilter{MinAmount: &lo, MaxAmount: &hi}, true},
		{"above max", TransactionFilter{MaxAmount: &lowMax}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(tx); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}
