package analysis

import (
	"reflect"
	"testing"
	"time"

	"fincoach/internal/core"
)

func TestMonthlyReports(t *testing.T) {
	txs := []core.Transaction{
		tx(-30, "Food", day(2024, 3, 2)),
		tx(1000, "Salary", day(2024, 1, 1)),
		tx(-200, "Rent", day(2024, 1, 2)),
		tx(-20, "Food", day(2024, 1, 9)),
		tx(-10, "Food", day(2024, 3, 20)),
	}

	got := MonthlyReports(txs)

	want := []core.MonthlyReport{
		{
			Month: "2024-01", TotalIncome: 1000, TotalExpenses: 220, NetSavings: 780,
			ExpenseBreakdown: map[string]float64{"Rent": 200, "Food": 20},
		},
		{
			Month: "2024-03", TotalIncome: 0, TotalExpenses: 40, NetSavings: -40,
			ExpenseBreakdown: map[string]float64{"Food": 40},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MonthlyReports() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestMonthlyReports_UsesTimestampLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-01-31 20:00 UTC is already February in Tokyo.
	instant := time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)

	utc := MonthlyReports([]core.Transaction{tx(-5, "Food", instant)})
	local := MonthlyReports([]core.Transaction{tx(-5, "Food", instant.In(tokyo))})

	if utc[0].Month != "2024-01" {
		t.Errorf("UTC month = %s, want 2024-01", utc[0].Month)
	}
	if local[0].Month != "2024-02" {
		t.Errorf("JST month = %s, want 2024-02", local[0].Month)
	}
}

func TestMonthlyReports_IncomeOnlyMonth(t *testing.T) {
	got := MonthlyReports([]core.Transaction{tx(50, "Gift", day(2023, 12, 24))})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	m := got[0]
	if m.Month != "2023-12" || m.TotalIncome != 50 || m.TotalExpenses != 0 || m.NetSavings != 50 {
		t.Errorf("unexpected report %+v", m)
	}
	if m.ExpenseBreakdown == nil || len(m.ExpenseBreakdown) != 0 {
		t.Errorf("ExpenseBreakdown = %v, want empty map", m.ExpenseBreakdown)
	}
}
