package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the derived financial overview for one user.
type Summary struct {
	TotalExpenses     Money
	TotalIncome       Money
	TotalInvestments  Money // sum of current values
	NetWorth          Money // income - expenses + investments
	ExpenseByCategory []CategoryAmount
	IncomeByCategory  []CategoryAmount
	InvestmentsByType []CategoryAmount
}

// BuildSummary aggregates a user's records into totals and per-category
// groupings. Grouped slices are sorted by name for stable output.
func BuildSummary(expenses []Expense, incomes []Income, investments []Investment) Summary {
	var s Summary

	expByCat := make(map[string]int64)
	for _, e := range expenses {
		s.TotalExpenses.Cents += e.Amount.Cents
		expByCat[e.Category] += e.Amount.Cents
	}

	incByCat := make(map[string]int64)
	for _, in := range incomes {
		s.TotalIncome.Cents += in.Amount.Cents
		incByCat[in.Category] += in.Amount.Cents
	}

	invByType := make(map[string]int64)
	for _, inv := range investments {
		s.TotalInvestments.Cents += inv.CurrentValue.Cents
		invByType[inv.Type] += inv.CurrentValue.Cents
	}

	s.NetWorth.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents + s.TotalInvestments.Cents
	s.ExpenseByCategory = sortedAmounts(expByCat)
	s.IncomeByCategory = sortedAmounts(incByCat)
	s.InvestmentsByType = sortedAmounts(invByType)
	return s
}

func sortedAmounts(m map[string]int64) []CategoryAmount {
	if len(m) == 0 {
		return nil
	}
	out := make([]CategoryAmount, 0, len(m))
	for name, cents := range m {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BudgetLine is one row of the budget planner: limit vs. actual spend.
type BudgetLine struct {
	Category     string
	BudgetAmount Money
	SpentAmount  Money
	Percentage   float64 // capped at 100 for display
	Status       string  // success | warning | danger
}

// Budget status thresholds, percent of the category budget spent.
const (
	budgetWarnPct   = 70
	budgetDangerPct = 100
)

// BuildBudgetReport computes a line per default category from the user's
// budget rows and expenses. Categories with no budget row get a zero limit.
func BuildBudgetReport(budgets []Budget, expenses []Expense) []BudgetLine {
	limits := make(map[string]int64, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.Amount.Cents
	}
	spent := make(map[string]int64)
	for _, e := range expenses {
		spent[e.Category] += e.Amount.Cents
	}

	lines := make([]BudgetLine, 0, len(DefaultExpenseCategories))
	for _, cat := range DefaultExpenseCategories {
		limit := limits[cat]
		used := spent[cat]

		var pct float64
		if limit > 0 {
			pct = float64(used) / float64(limit) * 100
		}
		status := "success"
		if pct > budgetDangerPct {
			status = "danger"
		} else if pct > budgetWarnPct {
			status = "warning"
		}
		if pct > 100 {
			pct = 100 // cap for the progress bar
		}
		lines = append(lines, BudgetLine{
			Category:     cat,
			BudgetAmount: Money{Cents: limit},
			SpentAmount:  Money{Cents: used},
			Percentage:   pct,
			Status:       status,
		})
	}
	return lines
}
