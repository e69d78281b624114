package analysis

import "fincoach/internal/core"

// BudgetComparisons compares each budget with the actual spend for its
// category, preserving input order. Duplicate categories are not merged.
func BudgetComparisons(budgets []core.Budget, actual map[string]float64) []core.BudgetComparison {
	out := make([]core.BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		spent := actual[b.Category]
		out = append(out, core.BudgetComparison{
			Category:   b.Category,
			Budgeted:   b.Amount,
			Actual:     spent,
			Difference: b.Amount - spent,
		})
	}
	return out
}
