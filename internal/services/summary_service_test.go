package services

import (
	"context"
	"testing"

	"fingenius/internal/core"
)

type stubStore struct {
	expenses    []core.Expense
	incomes     []core.Income
	goals       []core.Goal
	investments []core.Investment
	budgets     []core.Budget

	listCalls int
}

func (s *stubStore) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	s.listCalls++
	return s.expenses, nil
}

func (s *stubStore) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	return s.incomes, nil
}

func (s *stubStore) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.goals, nil
}

func (s *stubStore) ListInvestments(ctx context.Context, userID int64) ([]core.Investment, error) {
	return s.investments, nil
}

func (s *stubStore) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	return s.budgets, nil
}

func TestOverviewAggregates(t *testing.T) {
	store := &stubStore{
		expenses: []core.Expense{
			{UserID: 1, Description: "rent", Amount: core.Money{Cents: 50000}, Category: "Housing", Date: core.Today()},
		},
		incomes: []core.Income{
			{UserID: 1, Description: "pay", Amount: core.Money{Cents: 200000}, Category: "Salary", Date: core.Today()},
		},
		budgets: []core.Budget{
			{UserID: 1, Category: "Housing", Amount: core.Money{Cents: 60000}},
		},
	}
	svc := NewSummaryService(store)

	ov, err := svc.Overview(context.Background(), 1)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.Summary.TotalExpenses.Cents != 50000 {
		t.Fatalf("total expenses = %d", ov.Summary.TotalExpenses.Cents)
	}
	if ov.Summary.NetWorth.Cents != 150000 {
		t.Fatalf("net worth = %d", ov.Summary.NetWorth.Cents)
	}
	if len(ov.Suggestions) == 0 {
		t.Fatalf("expected suggestions")
	}
	var housing *core.BudgetLine
	for i := range ov.BudgetLines {
		if ov.BudgetLines[i].Category == "Housing" {
			housing = &ov.BudgetLines[i]
		}
	}
	if housing == nil {
		t.Fatalf("missing Housing budget line")
	}
	if housing.Status != "warning" {
		t.Fatalf("housing status = %s", housing.Status)
	}
}

func TestOverviewCachesUntilInvalidated(t *testing.T) {
	store := &stubStore{}
	svc := NewSummaryService(store)
	ctx := context.Background()

	if _, err := svc.Overview(ctx, 1); err != nil {
		t.Fatalf("overview: %v", err)
	}
	if _, err := svc.Overview(ctx, 1); err != nil {
		t.Fatalf("overview: %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("list calls = %d, want cached second read", store.listCalls)
	}

	svc.Invalidate(1)
	if _, err := svc.Overview(ctx, 1); err != nil {
		t.Fatalf("overview: %v", err)
	}
	if store.listCalls != 2 {
		t.Fatalf("list calls = %d, want recompute after invalidate", store.listCalls)
	}
}

func TestOverviewIsPerUser(t *testing.T) {
	store := &stubStore{}
	svc := NewSummaryService(store)
	ctx := context.Background()

	if _, err := svc.Overview(ctx, 1); err != nil {
		t.Fatalf("overview: %v", err)
	}
	if _, err := svc.Overview(ctx, 2); err != nil {
		t.Fatalf("overview: %v", err)
	}
	if store.listCalls != 2 {
		t.Fatalf("list calls = %d, want separate cache entries per user", store.listCalls)
	}
}
