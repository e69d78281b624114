// Package analysis turns a FinancialData snapshot into a FinancialReport.
//
// Everything here is a pure function of its inputs apart from the report
// timestamp, which comes from the Analyzer's clock.
package analysis

import (
	"math"
	"sort"
	"time"

	"fincoach/internal/core"
)

// TopCategoryCount is how many categories the report ranks.
const TopCategoryCount = 3

// Analyzer produces reports. The zero value uses time.Now.
type Analyzer struct {
	Now func() time.Time
}

var defaultAnalyzer Analyzer

// Analyze runs the default analyzer.
func Analyze(data core.FinancialData) core.FinancialReport {
	return defaultAnalyzer.Analyze(data)
}

// Analyze aggregates totals, the per-category breakdown, monthly reports and
// budget comparisons. The snapshot is never mutated.
func (a Analyzer) Analyze(data core.FinancialData) core.FinancialReport {
	var income, expenses float64 // expenses stays signed (<= 0)
	breakdown := make(map[string]float64)
	for _, t := range data.Transactions {
		switch {
		case t.IsIncome():
			income += t.Amount
		case t.IsExpense():
			expenses += t.Amount
			breakdown[t.Category] += math.Abs(t.Amount)
		}
	}

	balances := make(map[string]float64, len(data.Accounts))
	for _, acc := range data.Accounts {
		balances[acc.Name] = acc.Balance
	}

	creditScore := 0
	if data.CreditScore != nil {
		creditScore = *data.CreditScore
	}

	return core.FinancialReport{
		UserID:                data.UserID,
		TotalIncome:           income,
		TotalExpenses:         math.Abs(expenses),
		NetSavings:            income + expenses,
		ExpenseBreakdown:      breakdown,
		TopSpendingCategories: TopCategories(breakdown, TopCategoryCount),
		AccountBalances:       balances,
		CreditScore:           creditScore,
		ReportDate:            a.now(),
		MonthlyReports:        MonthlyReports(data.Transactions),
		BudgetComparisons:     BudgetComparisons(data.Budgets, breakdown),
	}
}

func (a Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// TopCategories returns up to n category names ordered by amount descending.
// Equal amounts are ordered by category name ascending.
func TopCategories(breakdown map[string]float64, n int) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ai, aj := breakdown[names[i]], breakdown[names[j]]
		if ai != aj {
			return ai > aj
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
