package core

import (
	"strings"
	"testing"
)

func hasSuggestion(s []Suggestion, title string) bool {
	for _, sg := range s {
		if strings.HasPrefix(sg.Title, title) {
			return true
		}
	}
	return false
}

func TestSuggestionsHighExpenseRatio(t *testing.T) {
	incomes := []Income{{Amount: Money{Cents: 100000}, Category: "Salary", Description: "x", Date: NewDate(2025, 1, 1)}}
	expenses := []Expense{{Amount: Money{Cents: 95000}, Category: "Housing", Description: "y", Date: NewDate(2025, 1, 1)}}

	got := BuildSuggestions(expenses, incomes, nil, nil)
	if !hasSuggestion(got, "Reduce Expenses") {
		t.Fatalf("expected Reduce Expenses, got %+v", got)
	}
}

func TestSuggestionsGreatSavingsRate(t *testing.T) {
	incomes := []Income{{Amount: Money{Cents: 100000}, Category: "Salary", Description: "x", Date: NewDate(2025, 1, 1)}}
	expenses := []Expense{{Amount: Money{Cents: 40000}, Category: "Housing", Description: "y", Date: NewDate(2025, 1, 1)}}

	got := BuildSuggestions(expenses, incomes, nil, nil)
	if !hasSuggestion(got, "Great Savings Rate") {
		t.Fatalf("expected Great Savings Rate, got %+v", got)
	}
}

func TestSuggestionsEmergencyFundAndDiversify(t *testing.T) {
	// No investments at all: emergency fund fires, diversify does not.
	got := BuildSuggestions(nil, nil, nil, nil)
	if !hasSuggestion(got, "Start an Emergency Fund") {
		t.Fatalf("expected emergency fund suggestion, got %+v", got)
	}
	if hasSuggestion(got, "Diversify Investments") {
		t.Fatalf("diversify should not fire without investments")
	}

	// Two types of investments: diversify fires.
	invs := []Investment{
		{Name: "a", Type: "Stocks", Amount: Money{Cents: 1}, CurrentValue: Money{Cents: 1}, PurchaseDate: NewDate(2024, 1, 1)},
		{Name: "b", Type: "Bonds", Amount: Money{Cents: 1}, CurrentValue: Money{Cents: 1}, PurchaseDate: NewDate(2024, 1, 1)},
	}
	got = BuildSuggestions(nil, nil, nil, invs)
	if !hasSuggestion(got, "Diversify Investments") {
		t.Fatalf("expected diversify suggestion, got %+v", got)
	}

	// Three distinct types: diversify stops firing.
	invs = append(invs, Investment{Name: "c", Type: "ETFs", Amount: Money{Cents: 1}, CurrentValue: Money{Cents: 1}, PurchaseDate: NewDate(2024, 1, 1)})
	got = BuildSuggestions(nil, nil, nil, invs)
	if hasSuggestion(got, "Diversify Investments") {
		t.Fatalf("diversify should not fire with three types")
	}
}

func TestSuggestionsDominantCategory(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 50000}, Category: "Entertainment", Description: "x", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 30000}, Category: "Food", Description: "y", Date: NewDate(2025, 1, 1)},
	}
	got := BuildSuggestions(expenses, nil, nil, nil)
	if !hasSuggestion(got, "High Entertainment Expenses") {
		t.Fatalf("expected dominant category warning, got %+v", got)
	}

	// Evenly spread spending does not fire the rule.
	expenses = []Expense{
		{Amount: Money{Cents: 10000}, Category: "A", Description: "x", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 10000}, Category: "B", Description: "y", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 10000}, Category: "C", Description: "z", Date: NewDate(2025, 1, 1)},
	}
	got = BuildSuggestions(expenses, nil, nil, nil)
	if hasSuggestion(got, "High ") {
		t.Fatalf("no category should dominate, got %+v", got)
	}
}

func TestSuggestionsGoalProgress(t *testing.T) {
	goals := []Goal{
		{Name: "Vacation", TargetAmount: Money{Cents: 100000}, CurrentAmount: Money{Cents: 10000}},
		{Name: "Car", TargetAmount: Money{Cents: 100000}, CurrentAmount: Money{Cents: 50000}},
	}
	got := BuildSuggestions(nil, nil, goals, nil)
	if !hasSuggestion(got, "Goal: Vacation") {
		t.Fatalf("expected lagging goal warning, got %+v", got)
	}
	if hasSuggestion(got, "Goal: Car") {
		t.Fatalf("goal at 50%% should not warn")
	}
}

func TestSuggestionsDefaultSet(t *testing.T) {
	// One investment of each of three types, healthy ratio, no goals:
	// nothing fires, so the default starter suggestions come back.
	invs := []Investment{
		{Name: "a", Type: "Stocks", Amount: Money{Cents: 1}, CurrentValue: Money{Cents: 1}, PurchaseDate: NewDate(2024, 1, 1)},
		{Name: "b", Type: "Bonds", Amount: Money{Cents: 1}, CurrentValue: Money{Cents: 1}, PurchaseDate: NewDate(2024, 1, 1)},
		{Name: "c", Type: "ETFs", Amount: Money{Cents: 1}, CurrentValue: Money{Cents: 1}, PurchaseDate: NewDate(2024, 1, 1)},
	}
	incomes := []Income{{Amount: Money{Cents: 100000}, Category: "Salary", Description: "x", Date: NewDate(2025, 1, 1)}}
	expenses := []Expense{
		{Amount: Money{Cents: 20000}, Category: "A", Description: "x", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 20000}, Category: "B", Description: "y", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 20000}, Category: "C", Description: "z", Date: NewDate(2025, 1, 1)},
	}

	got := BuildSuggestions(expenses, incomes, nil, invs)
	if len(got) != 3 || !hasSuggestion(got, "Track Your Expenses") {
		t.Fatalf("expected default suggestion set, got %+v", got)
	}
}
