package core

import "fmt"

// Suggestion is one rule-derived piece of financial advice.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // success | info | warning
}

// BuildSuggestions evaluates the advice rules over a user's records.
// Rules fire independently; when none fires, a default starter set is
// returned so the page is never empty.
func BuildSuggestions(expenses []Expense, incomes []Income, goals []Goal, investments []Investment) []Suggestion {
	var out []Suggestion

	var totalExpenses, totalIncome int64
	expByCat := make(map[string]int64)
	for _, e := range expenses {
		totalExpenses += e.Amount.Cents
		expByCat[e.Category] += e.Amount.Cents
	}
	for _, in := range incomes {
		totalIncome += in.Amount.Cents
	}

	// Expense/income ratio.
	if totalIncome > 0 {
		ratio := float64(totalExpenses) / float64(totalIncome)
		if ratio > 0.9 {
			out = append(out, Suggestion{
				Title:       "Reduce Expenses",
				Description: fmt.Sprintf("Your expenses are %.1f%% of your income. Aim to keep expenses below 70%% of income.", ratio*100),
				Type:        "warning",
			})
		} else if ratio < 0.5 {
			out = append(out, Suggestion{
				Title:       "Great Savings Rate",
				Description: fmt.Sprintf("You're saving %.1f%% of your income. Consider investing more for long-term growth.", (1-ratio)*100),
				Type:        "success",
			})
		}
	}

	// Emergency fund.
	if len(investments) == 0 {
		out = append(out, Suggestion{
			Title:       "Start an Emergency Fund",
			Description: "Consider building an emergency fund with 3-6 months of expenses.",
			Type:        "info",
		})
	}

	// Diversification.
	types := make(map[string]struct{})
	for _, inv := range investments {
		types[inv.Type] = struct{}{}
	}
	if len(investments) > 0 && len(types) < 3 {
		out = append(out, Suggestion{
			Title:       "Diversify Investments",
			Description: "Consider diversifying your investment portfolio across different asset classes.",
			Type:        "info",
		})
	}

	// Dominant expense category (over 40% of total spend).
	if totalExpenses > 0 {
		var topCat string
		var topCents int64
		for cat, cents := range expByCat {
			if cents > topCents || (cents == topCents && cat < topCat) {
				topCat, topCents = cat, cents
			}
		}
		if topCents*10 > totalExpenses*4 {
			out = append(out, Suggestion{
				Title:       fmt.Sprintf("High %s Expenses", topCat),
				Description: fmt.Sprintf("%s expenses make up %.1f%% of your total spending. Consider ways to reduce this.", topCat, float64(topCents)/float64(totalExpenses)*100),
				Type:        "warning",
			})
		}
	}

	// Goals far from their target.
	for _, g := range goals {
		if g.TargetAmount.Cents <= 0 {
			continue
		}
		progress := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents)
		if progress < 0.25 {
			out = append(out, Suggestion{
				Title:       fmt.Sprintf("Goal: %s", g.Name),
				Description: fmt.Sprintf("You're only %.1f%% of the way to your goal. Consider allocating more funds.", progress*100),
				Type:        "warning",
			})
		}
	}

	if len(out) == 0 {
		out = defaultSuggestions()
	}
	return out
}

func defaultSuggestions() []Suggestion {
	return []Suggestion{
		{
			Title:       "Track Your Expenses",
			Description: "Start by logging all your expenses to get better financial insights.",
			Type:        "info",
		},
		{
			Title:       "Set Financial Goals",
			Description: "Define clear financial goals to help motivate your saving and investing habits.",
			Type:        "info",
		},
		{
			Title:       "Create a Budget",
			Description: "A budget is the foundation of financial success. Use our budget tool to get started.",
			Type:        "info",
		},
	}
}
