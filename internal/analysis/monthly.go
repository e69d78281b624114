package analysis

import (
	"math"
	"sort"

	"fincoach/internal/core"
)

// MonthKeyLayout formats a timestamp as its YYYY-MM month key.
const MonthKeyLayout = "2006-01"

// MonthKey projects t onto its calendar month in t's own location.
func MonthKey(t core.Transaction) string {
	return t.Date.Format(MonthKeyLayout)
}

// MonthlyReports groups transactions by month and returns one report per
// month present in the input, sorted ascending. Missing months are not filled.
func MonthlyReports(txs []core.Transaction) []core.MonthlyReport {
	byMonth := make(map[string]*core.MonthlyReport)
	for _, t := range txs {
		key := MonthKey(t)
		m, ok := byMonth[key]
		if !ok {
			m = &core.MonthlyReport{Month: key, ExpenseBreakdown: make(map[string]float64)}
			byMonth[key] = m
		}
		switch {
		case t.IsIncome():
			m.TotalIncome += t.Amount
		case t.IsExpense():
			m.ExpenseBreakdown[t.Category] += math.Abs(t.Amount)
		}
	}

	reports := make([]core.MonthlyReport, 0, len(byMonth))
	for _, m := range byMonth {
		for _, v := range m.ExpenseBreakdown {
			m.TotalExpenses += v
		}
		m.NetSavings = m.TotalIncome - m.TotalExpenses
		reports = append(reports, *m)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Month < reports[j].Month })
	return reports
}
