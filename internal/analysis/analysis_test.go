package analysis

import (
	"math"
	"reflect"
	"testing"
	"time"

	"fincoach/internal/core"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func tx(amount float64, category string, date time.Time) core.Transaction {
	return core.Transaction{ID: category, Amount: amount, Description: category, Category: category, Date: date}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAnalyze_Scenario(t *testing.T) {
	d := day(2024, 1, 15)
	data := core.FinancialData{
		UserID: "u1",
		Transactions: []core.Transaction{
			tx(1000, "Income", d),
			tx(-200, "Food", d),
			tx(-50, "Food", d),
			tx(-100, "Transport", d),
		},
		Accounts: []core.Account{{ID: "a1", Name: "Checking", Balance: 1500, Type: "checking"}},
		Budgets:  []core.Budget{{Category: "Food", Amount: 300}},
	}

	report := Analyzer{Now: func() time.Time { return fixedNow }}.Analyze(data)

	if report.UserID != "u1" {
		t.Errorf("UserID = %q", report.UserID)
	}
	if report.TotalIncome != 1000 || report.TotalExpenses != 350 || report.NetSavings != 650 {
		t.Errorf("totals = %v/%v/%v, want 1000/350/650", report.TotalIncome, report.TotalExpenses, report.NetSavings)
	}
	wantBreakdown := map[string]float64{"Food": 250, "Transport": 100}
	if !reflect.DeepEqual(report.ExpenseBreakdown, wantBreakdown) {
		t.Errorf("ExpenseBreakdown = %v, want %v", report.ExpenseBreakdown, wantBreakdown)
	}
	if !reflect.DeepEqual(report.TopSpendingCategories, []string{"Food", "Transport"}) {
		t.Errorf("TopSpendingCategories = %v", report.TopSpendingCategories)
	}
	wantCmp := []core.BudgetComparison{{Category: "Food", Budgeted: 300, Actual: 250, Difference: 50}}
	if !reflect.DeepEqual(report.BudgetComparisons, wantCmp) {
		t.Errorf("BudgetComparisons = %+v, want %+v", report.BudgetComparisons, wantCmp)
	}
	if report.AccountBalances["Checking"] != 1500 {
		t.Errorf("AccountBalances = %v", report.AccountBalances)
	}
	if report.CreditScore != 0 {
		t.Errorf("CreditScore = %d, want 0 for absent score", report.CreditScore)
	}
	if !report.ReportDate.Equal(fixedNow) {
		t.Errorf("ReportDate = %v, want %v", report.ReportDate, fixedNow)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze(core.FinancialData{UserID: "u"})

	if report.TotalIncome != 0 || report.TotalExpenses != 0 || report.NetSavings != 0 {
		t.Errorf("totals should be zero, got %+v", report)
	}
	if report.ExpenseBreakdown == nil || len(report.ExpenseBreakdown) != 0 {
		t.Errorf("ExpenseBreakdown = %v, want empty map", report.ExpenseBreakdown)
	}
	if report.TopSpendingCategories == nil || len(report.TopSpendingCategories) != 0 {
		t.Errorf("TopSpendingCategories = %v, want empty slice", report.TopSpendingCategories)
	}
	if report.MonthlyReports == nil || len(report.MonthlyReports) != 0 {
		t.Errorf("MonthlyReports = %v, want empty slice", report.MonthlyReports)
	}
	if report.ReportDate.IsZero() {
		t.Error("ReportDate should be set")
	}
}

func TestAnalyze_CreditScoreAndAccounts(t *testing.T) {
	score := 712
	data := core.FinancialData{
		CreditScore: &score,
		Accounts: []core.Account{
			{ID: "1", Name: "Savings", Balance: 10},
			{ID: "2", Name: "Savings", Balance: 20},
			{ID: "3", Name: "Card", Balance: -300},
		},
	}
	report := Analyze(data)
	if report.CreditScore != 712 {
		t.Errorf("CreditScore = %d", report.CreditScore)
	}
	want := map[string]float64{"Savings": 20, "Card": -300}
	if !reflect.DeepEqual(report.AccountBalances, want) {
		t.Errorf("AccountBalances = %v, want %v (later name wins)", report.AccountBalances, want)
	}
}

func TestAnalyze_Invariants(t *testing.T) {
	data := core.FinancialData{Transactions: []core.Transaction{
		tx(2500.10, "Salary", day(2024, 1, 1)),
		tx(-12.34, "Food", day(2024, 1, 3)),
		tx(-99.99, "Rent", day(2024, 1, 5)),
		tx(-0.01, "Fees", day(2024, 2, 1)),
		tx(300, "Gift", day(2024, 2, 14)),
		tx(-45.5, "Food", day(2024, 2, 20)),
		tx(-1200, "Rent", day(2024, 3, 1)),
		tx(-7, "Coffee", day(2024, 3, 2)),
		tx(0, "Noise", day(2024, 3, 3)),
	}}
	report := Analyze(data)

	if report.TotalExpenses < 0 {
		t.Fatalf("TotalExpenses negative: %v", report.TotalExpenses)
	}
	if !approx(report.NetSavings, report.TotalIncome-report.TotalExpenses) {
		t.Errorf("NetSavings %v != income - expenses %v", report.NetSavings, report.TotalIncome-report.TotalExpenses)
	}

	var sum float64
	for _, v := range report.ExpenseBreakdown {
		sum += v
	}
	if !approx(sum, report.TotalExpenses) {
		t.Errorf("breakdown sum %v != TotalExpenses %v", sum, report.TotalExpenses)
	}

	if len(report.TopSpendingCategories) != 3 {
		t.Fatalf("TopSpendingCategories len = %d, want 3", len(report.TopSpendingCategories))
	}
	for i := 1; i < len(report.TopSpendingCategories); i++ {
		prev := report.ExpenseBreakdown[report.TopSpendingCategories[i-1]]
		cur := report.ExpenseBreakdown[report.TopSpendingCategories[i]]
		if cur > prev {
			t.Errorf("top categories not descending: %v", report.TopSpendingCategories)
		}
	}

	var monthlyIncome, monthlyExpenses float64
	for i, m := range report.MonthlyReports {
		if i > 0 && report.MonthlyReports[i-1].Month >= m.Month {
			t.Errorf("monthly reports not ascending: %s then %s", report.MonthlyReports[i-1].Month, m.Month)
		}
		monthlyIncome += m.TotalIncome
		monthlyExpenses += m.TotalExpenses
	}
	if !approx(monthlyIncome, report.TotalIncome) {
		t.Errorf("monthly income %v != TotalIncome %v", monthlyIncome, report.TotalIncome)
	}
	if !approx(monthlyExpenses, report.TotalExpenses) {
		t.Errorf("monthly expenses %v != TotalExpenses %v", monthlyExpenses, report.TotalExpenses)
	}
	if _, ok := report.ExpenseBreakdown["Noise"]; ok {
		t.Error("zero-amount transaction must not appear in the breakdown")
	}
}

func TestTopCategories(t *testing.T) {
	tests := []struct {
		name      string
		breakdown map[string]float64
		want      []string
	}{
		{"empty", map[string]float64{}, []string{}},
		{"fewer than three", map[string]float64{"A": 1, "B": 2}, []string{"B", "A"}},
		{"truncates", map[string]float64{"A": 1, "B": 4, "C": 3, "D": 2}, []string{"B", "C", "D"}},
		{"ties by name", map[string]float64{"Zeta": 5, "Alpha": 5, "Mid": 5, "Low": 1}, []string{"Alpha", "Mid", "Zeta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopCategories(tt.breakdown, TopCategoryCount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopCategories() = %v, want %v", got, tt.want)
			}
		})
	}
}
