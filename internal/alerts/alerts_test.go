package alerts

import (
	"testing"
	"time"

	"fincoach/internal/analysis"
	"fincoach/internal/core"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func tx(id string, amount float64, category string) core.Transaction {
	return core.Transaction{ID: id, Amount: amount, Description: id, Category: category, Date: day}
}

func TestEvaluate_BudgetExceeded(t *testing.T) {
	data := core.FinancialData{
		UserID:       "1",
		Transactions: []core.Transaction{tx("a", -120, "Food"), tx("b", -20, "Fun")},
		Budgets:      []core.Budget{{Category: "Food", Amount: 100}, {Category: "Fun", Amount: 50}},
	}
	got := Evaluate(analysis.Analyze(data), data, Thresholds{LowBalance: 0, Factor: 3})

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(got), got)
	}
	want := "Budget exceeded for Food. Spent $120.00, budget was $100.00"
	if got[0].Type != core.AlertBudgetExceeded || got[0].Message != want {
		t.Errorf("alert = %+v, want message %q", got[0], want)
	}
	if got[0].UserID != "1" {
		t.Errorf("UserID = %q, want 1", got[0].UserID)
	}
}

func TestEvaluate_LowBalance(t *testing.T) {
	data := core.FinancialData{
		UserID: "2",
		Accounts: []core.Account{
			{ID: "acc1", Name: "Checking", Balance: 45.5},
			{ID: "acc2", Name: "Savings", Balance: 100},
		},
	}
	got := Evaluate(analysis.Analyze(data), data, Thresholds{LowBalance: 100, Factor: 3})

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1", len(got))
	}
	want := "Low balance alert for account acc1. Current balance: $45.50, Threshold: $100.00"
	if got[0].Message != want {
		t.Errorf("Message = %q, want %q", got[0].Message, want)
	}
	if got[0].Data["account_id"] != "acc1" || got[0].Data["name"] != "Checking" {
		t.Errorf("Data = %v", got[0].Data)
	}
}

func TestEvaluate_UnusualActivity(t *testing.T) {
	tests := []struct {
		name string
		txs  []core.Transaction
		want []string
	}{
		{
			name: "outlier flagged",
			txs: []core.Transaction{
				tx("a", -10, "Food"), tx("b", -12, "Food"), tx("c", -8, "Food"),
				tx("d", -11, "Food"), tx("e", -200, "Food"),
			},
			want: []string{"e"},
		},
		{
			name: "too few samples",
			txs:  []core.Transaction{tx("a", -10, "Food"), tx("b", -500, "Food")},
		},
		{
			name: "income ignored",
			txs: []core.Transaction{
				tx("a", -10, "Pay"), tx("b", -10, "Pay"), tx("c", -10, "Pay"), tx("d", 9000, "Pay"),
			},
		},
		{
			name: "categories isolated",
			txs: []core.Transaction{
				tx("a", -1000, "Rent"), tx("b", -1000, "Rent"), tx("c", -1000, "Rent"),
				tx("d", -5, "Food"), tx("e", -6, "Food"), tx("f", -5, "Food"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := core.FinancialData{UserID: "3", Transactions: tt.txs}
			got := unusualActivityAlerts(data, 3)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d alerts, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, a := range got {
				if a.Data["transaction_id"] != tt.want[i] {
					t.Errorf("alert %d flagged %v, want %s", i, a.Data["transaction_id"], tt.want[i])
				}
			}
		})
	}
}

func TestEvaluate_Order(t *testing.T) {
	data := core.FinancialData{
		UserID: "4",
		Transactions: []core.Transaction{
			tx("a", -10, "Food"), tx("b", -10, "Food"), tx("c", -10, "Food"), tx("d", -500, "Food"),
		},
		Accounts: []core.Account{{ID: "x", Name: "Wallet", Balance: 5}},
		Budgets:  []core.Budget{{Category: "Food", Amount: 100}},
	}
	got := Evaluate(analysis.Analyze(data), data, Thresholds{LowBalance: 50, Factor: 3})

	wantTypes := []core.AlertType{core.AlertBudgetExceeded, core.AlertLowBalance, core.AlertUnusualActivity}
	if len(got) != len(wantTypes) {
		t.Fatalf("got %d alerts, want %d", len(got), len(wantTypes))
	}
	for i, w := range wantTypes {
		if got[i].Type != w {
			t.Errorf("alert %d type = %s, want %s", i, got[i].Type, w)
		}
	}
}
