// Package alerts derives notifications from a report and its snapshot.
package alerts

import (
	"fmt"
	"math"

	"fincoach/internal/core"
)

// minCategorySample is the number of expenses a category needs before outliers are flagged.
const minCategorySample = 3

// Thresholds tune the low balance and unusual activity rules.
type Thresholds struct {
	LowBalance float64
	Factor     float64
}

// Evaluate returns budget, balance and unusual activity alerts, in that order.
func Evaluate(report core.FinancialReport, data core.FinancialData, th Thresholds) []core.Alert {
	var out []core.Alert
	out = append(out, budgetAlerts(report)...)
	out = append(out, lowBalanceAlerts(data, th.LowBalance)...)
	out = append(out, unusualActivityAlerts(data, th.Factor)...)
	return out
}

func budgetAlerts(report core.FinancialReport) []core.Alert {
	var out []core.Alert
	for _, c := range report.BudgetComparisons {
		if c.Difference >= 0 {
			continue
		}
		out = append(out, core.Alert{
			Type:    core.AlertBudgetExceeded,
			UserID:  report.UserID,
			Message: fmt.Sprintf("Budget exceeded for %s. Spent $%.2f, budget was $%.2f", c.Category, c.Actual, c.Budgeted),
			Data: map[string]any{
				"category": c.Category,
				"amount":   c.Actual,
				"budget":   c.Budgeted,
			},
		})
	}
	return out
}

func lowBalanceAlerts(data core.FinancialData, threshold float64) []core.Alert {
	var out []core.Alert
	for _, acc := range data.Accounts {
		if acc.Balance >= threshold {
			continue
		}
		out = append(out, core.Alert{
			Type:   core.AlertLowBalance,
			UserID: data.UserID,
			Message: fmt.Sprintf("Low balance alert for account %s. Current balance: $%.2f, Threshold: $%.2f",
				acc.ID, acc.Balance, threshold),
			Data: map[string]any{
				"account_id": acc.ID,
				"name":       acc.Name,
				"balance":    acc.Balance,
				"threshold":  threshold,
			},
		})
	}
	return out
}

// unusualActivityAlerts flags expenses larger than factor times their category's mean expense.
func unusualActivityAlerts(data core.FinancialData, factor float64) []core.Alert {
	if factor <= 1 {
		return nil
	}
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, t := range data.Transactions {
		if t.IsExpense() {
			sums[t.Category] += math.Abs(t.Amount)
			counts[t.Category]++
		}
	}

	var out []core.Alert
	for _, t := range data.Transactions {
		if !t.IsExpense() || counts[t.Category] < minCategorySample {
			continue
		}
		mean := sums[t.Category] / float64(counts[t.Category])
		amount := math.Abs(t.Amount)
		if amount <= factor*mean {
			continue
		}
		out = append(out, core.Alert{
			Type:    core.AlertUnusualActivity,
			UserID:  data.UserID,
			Message: fmt.Sprintf("Unusual activity detected. Transaction ID: %s, Amount: $%.2f", t.ID, amount),
			Data: map[string]any{
				"transaction_id": t.ID,
				"amount":         amount,
				"reason":         fmt.Sprintf("more than %.1fx the average %s expense of $%.2f", factor, t.Category, mean),
			},
		})
	}
	return out
}
