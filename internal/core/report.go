package core

import "time"

// MonthlyReport summarises a single calendar month keyed as YYYY-MM.
type MonthlyReport struct {
	Month            string             `json:"month"`
	TotalIncome      float64            `json:"total_income"`
	TotalExpenses    float64            `json:"total_expenses"`
	NetSavings       float64            `json:"net_savings"`
	ExpenseBreakdown map[string]float64 `json:"expense_breakdown"`
}

// BudgetComparison holds Difference = Budgeted - Actual; negative means overspent.
type BudgetComparison struct {
	Category   string  `json:"category"`
	Budgeted   float64 `json:"budgeted"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
}

// FinancialReport is the derived view of a FinancialData snapshot.
// TotalExpenses is always a non-negative magnitude.
type FinancialReport struct {
	UserID                string             `json:"user_id"`
	TotalIncome           float64            `json:"total_income"`
	TotalExpenses         float64            `json:"total_expenses"`
	NetSavings            float64            `json:"net_savings"`
	ExpenseBreakdown      map[string]float64 `json:"expense_breakdown"`
	TopSpendingCategories []string           `json:"top_spending_categories"`
	AccountBalances       map[string]float64 `json:"account_balances"`
	CreditScore           int                `json:"credit_score"`
	ReportDate            time.Time          `json:"report_date"`
	MonthlyReports        []MonthlyReport    `json:"monthly_reports"`
	BudgetComparisons     []BudgetComparison `json:"budget_comparisons"`
}

// AlertType names a kind of notification raised from a report.
type AlertType string

const (
	AlertBudgetExceeded  AlertType = "budget_exceeded"
	AlertLowBalance      AlertType = "low_balance"
	AlertUnusualActivity AlertType = "unusual_activity"
	AlertBillDue         AlertType = "bill_due"
)

type Alert struct {
	Type    AlertType      `json:"type"`
	UserID  string         `json:"user_id"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// AccountSummary is a short-window roll-up of activity and balances.
type AccountSummary struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalIncome   float64   `json:"total_income"`
	TotalExpenses float64   `json:"total_expenses"`
	NetChange     float64   `json:"net_change"`
	TotalBalance  float64   `json:"total_balance"`
}
