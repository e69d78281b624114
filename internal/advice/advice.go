// Package advice derives human-readable suggestions from a FinancialReport.
//
// Rules run in a fixed order and each appends zero or more messages:
// credit score, savings rate, top category, month over month, budgets.
package advice

import (
	"fmt"
	"math"

	"fincoach/internal/core"
)

// Credit score bands. A score of 0 means no score was recorded.
const (
	FairCreditScore = 600
	GoodCreditScore = 700
)

// Savings rate bands, in percent.
const (
	LowSavingsRate       = 10.0
	ExcellentSavingsRate = 20.0
)

// Advise evaluates every rule against the report. It never fails.
func Advise(report core.FinancialReport) []string {
	var out []string
	out = appendNonEmpty(out, creditScoreAdvice(report.CreditScore))
	out = append(out, savingsRateAdvice(report))
	out = appendNonEmpty(out, topCategoryAdvice(report))
	out = append(out, monthOverMonthAdvice(report.MonthlyReports)...)
	out = append(out, budgetAdvice(report.BudgetComparisons)...)
	return out
}

func appendNonEmpty(out []string, s string) []string {
	if s == "" {
		return out
	}
	return append(out, s)
}

func creditScoreAdvice(score int) string {
	switch {
	case score <= 0:
		return ""
	case score < FairCreditScore:
		return "Your credit score needs attention. Focus on paying bills on time and reducing credit card balances."
	case score < GoodCreditScore:
		return "Your credit score could be improved. Continue to pay bills on time and reduce credit utilization."
	default:
		return "Great job on maintaining a good credit score! Keep up the good work and stay on top of your bills."
	}
}

// SavingsRate returns net savings as a percentage of income, or 0 without income.
func SavingsRate(report core.FinancialReport) float64 {
	if report.TotalIncome <= 0 {
		return 0
	}
	return report.NetSavings / report.TotalIncome * 100
}

func savingsRateAdvice(report core.FinancialReport) string {
	return savingsRateMessage(SavingsRate(report))
}

func savingsRateMessage(rate float64) string {
	switch {
	case rate < LowSavingsRate:
		return fmt.Sprintf("Your savings rate is low at %.1f%%. Try to save at least 10%% of your income.", rate)
	case rate < ExcellentSavingsRate:
		return fmt.Sprintf("Your savings rate of %.1f%% is good. Aim to increase it to 20%% for better financial security.", rate)
	default:
		return fmt.Sprintf("Excellent savings rate of %.1f%%! You're on track for a strong financial future.", rate)
	}
}

func topCategoryAdvice(report core.FinancialReport) string {
	if len(report.TopSpendingCategories) == 0 {
		return ""
	}
	top := report.TopSpendingCategories[0]
	share := 0.0
	if report.TotalExpenses > 0 {
		share = report.ExpenseBreakdown[top] / report.TotalExpenses * 100
	}
	return fmt.Sprintf("Your highest spending category is %s, at %.1f%% of your expenses. Consider if there's room to reduce spending in this area.", top, share)
}

func monthOverMonthAdvice(months []core.MonthlyReport) []string {
	if len(months) < 2 {
		return nil
	}
	latest, previous := months[len(months)-1], months[len(months)-2]
	incomeChange := latest.TotalIncome - previous.TotalIncome
	expenseChange := latest.TotalExpenses - previous.TotalExpenses

	var out []string
	switch {
	case incomeChange > 0:
		out = append(out, fmt.Sprintf("Your income increased by $%.2f compared to last month. Great job!", incomeChange))
	case incomeChange < 0:
		out = append(out, fmt.Sprintf("Your income decreased by $%.2f compared to last month. Consider ways to increase your income.", math.Abs(incomeChange)))
	}
	switch {
	case expenseChange > 0:
		out = append(out, fmt.Sprintf("Your expenses increased by $%.2f compared to last month. Try to identify areas where you can cut back.", expenseChange))
	case expenseChange < 0:
		out = append(out, fmt.Sprintf("Your expenses decreased by $%.2f compared to last month. Keep up the good work in managing your spending!", math.Abs(expenseChange)))
	}
	return out
}

func budgetAdvice(comparisons []core.BudgetComparison) []string {
	var out []string
	for _, c := range comparisons {
		switch {
		case c.Difference < 0:
			out = append(out, fmt.Sprintf("You've overspent in the %s category by $%.2f. Try to cut back on spending in this area.", c.Category, math.Abs(c.Difference)))
		case c.Difference > 0:
			out = append(out, fmt.Sprintf("You're under budget in the %s category by $%.2f. Great job managing your spending!", c.Category, c.Difference))
		}
	}
	return out
}
