package core

import "testing"

func TestBuildSummary(t *testing.T) {
	expenses := []Expense{
		{Description: "rent", Amount: Money{Cents: 100000}, Category: "Housing", Date: NewDate(2025, 1, 1)},
		{Description: "food", Amount: Money{Cents: 20000}, Category: "Food", Date: NewDate(2025, 1, 2)},
		{Description: "more food", Amount: Money{Cents: 10000}, Category: "Food", Date: NewDate(2025, 1, 3)},
	}
	incomes := []Income{
		{Description: "salary", Amount: Money{Cents: 300000}, Category: "Salary", Date: NewDate(2025, 1, 1)},
	}
	investments := []Investment{
		{Name: "fund", Type: "ETFs", Amount: Money{Cents: 50000}, CurrentValue: Money{Cents: 55000}, PurchaseDate: NewDate(2024, 1, 1)},
	}

	s := BuildSummary(expenses, incomes, investments)

	if s.TotalExpenses.Cents != 130000 {
		t.Fatalf("total expenses = %d", s.TotalExpenses.Cents)
	}
	if s.TotalIncome.Cents != 300000 {
		t.Fatalf("total income = %d", s.TotalIncome.Cents)
	}
	if s.TotalInvestments.Cents != 55000 {
		t.Fatalf("total investments = %d", s.TotalInvestments.Cents)
	}
	// net worth = income - expenses + investments
	if s.NetWorth.Cents != 300000-130000+55000 {
		t.Fatalf("net worth = %d", s.NetWorth.Cents)
	}

	if len(s.ExpenseByCategory) != 2 {
		t.Fatalf("expense categories = %d", len(s.ExpenseByCategory))
	}
	// Sorted by name: Food before Housing.
	if s.ExpenseByCategory[0].Name != "Food" || s.ExpenseByCategory[0].Amount.Cents != 30000 {
		t.Fatalf("unexpected first category: %+v", s.ExpenseByCategory[0])
	}
	if s.InvestmentsByType[0].Name != "ETFs" || s.InvestmentsByType[0].Amount.Cents != 55000 {
		t.Fatalf("unexpected investment grouping: %+v", s.InvestmentsByType)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil, nil, nil)
	if s.TotalExpenses.Cents != 0 || s.TotalIncome.Cents != 0 || s.NetWorth.Cents != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.ExpenseByCategory != nil || s.IncomeByCategory != nil || s.InvestmentsByType != nil {
		t.Fatalf("expected nil groupings")
	}
}

func TestBuildBudgetReport(t *testing.T) {
	budgets := []Budget{
		{Category: "Food", Amount: Money{Cents: 50000}},
		{Category: "Housing", Amount: Money{Cents: 100000}},
	}
	expenses := []Expense{
		{Category: "Food", Amount: Money{Cents: 40000}, Description: "x", Date: NewDate(2025, 1, 1)},
		{Category: "Housing", Amount: Money{Cents: 120000}, Description: "y", Date: NewDate(2025, 1, 1)},
	}

	lines := BuildBudgetReport(budgets, expenses)
	if len(lines) != len(DefaultExpenseCategories) {
		t.Fatalf("expected one line per default category, got %d", len(lines))
	}

	byCat := make(map[string]BudgetLine, len(lines))
	for _, l := range lines {
		byCat[l.Category] = l
	}

	food := byCat["Food"]
	if food.Percentage != 80 || food.Status != "warning" {
		t.Fatalf("food: %+v", food)
	}

	housing := byCat["Housing"]
	if housing.Status != "danger" {
		t.Fatalf("housing status = %s", housing.Status)
	}
	if housing.Percentage != 100 {
		t.Fatalf("percentage should cap at 100, got %v", housing.Percentage)
	}
	if housing.SpentAmount.Cents != 120000 {
		t.Fatalf("housing spent = %d", housing.SpentAmount.Cents)
	}

	// Category with no budget and no spend.
	util := byCat["Utilities"]
	if util.BudgetAmount.Cents != 0 || util.Percentage != 0 || util.Status != "success" {
		t.Fatalf("utilities: %+v", util)
	}
}

func TestBudgetReportBoundary(t *testing.T) {
	budgets := []Budget{{Category: "Food", Amount: Money{Cents: 10000}}}

	// Exactly 70% stays success, exactly 100% stays warning.
	lines := BuildBudgetReport(budgets, []Expense{{Category: "Food", Amount: Money{Cents: 7000}, Description: "x", Date: NewDate(2025, 1, 1)}})
	for _, l := range lines {
		if l.Category == "Food" && l.Status != "success" {
			t.Fatalf("70%% should be success, got %s", l.Status)
		}
	}
	lines = BuildBudgetReport(budgets, []Expense{{Category: "Food", Amount: Money{Cents: 10000}, Description: "x", Date: NewDate(2025, 1, 1)}})
	for _, l := range lines {
		if l.Category == "Food" && l.Status != "warning" {
			t.Fatalf("100%% should be warning, got %s", l.Status)
		}
	}
}
