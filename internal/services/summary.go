package services

import (
	"math"
	"time"

	"fincoach/internal/core"
)

// SummaryWindow is the look-back of AccountSummary.
const SummaryWindow = 30 * 24 * time.Hour

// AccountSummary totals activity dated within (now-30d, now] and sums all balances.
func AccountSummary(now time.Time, txs []core.Transaction, accounts []core.Account) core.AccountSummary {
	from := now.Add(-SummaryWindow)
	s := core.AccountSummary{From: from, To: now}
	for _, t := range txs {
		if !t.Date.After(from) || t.Date.After(now) {
			continue
		}
		switch {
		case t.IsIncome():
			s.TotalIncome += t.Amount
		case t.IsExpense():
			s.TotalExpenses += math.Abs(t.Amount)
		}
	}
	s.NetChange = s.TotalIncome - s.TotalExpenses
	for _, a := range accounts {
		s.TotalBalance += a.Balance
	}
	return s
}
