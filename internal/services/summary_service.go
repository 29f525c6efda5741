package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fingenius/internal/cache"
	"fingenius/internal/core"
)

// RecordStore is the slice of the storage layer the summary service reads.
type RecordStore interface {
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	ListIncomes(ctx context.Context, userID int64) ([]core.Income, error)
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	ListInvestments(ctx context.Context, userID int64) ([]core.Investment, error)
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
}

// Overview bundles everything the dashboard and the summary endpoint need
// from one pass over a user's records.
type Overview struct {
	Summary     core.Summary
	Suggestions []core.Suggestion
	BudgetLines []core.BudgetLine
	Goals       []core.Goal
}

// SummaryService aggregates a user's records into summaries, budget reports
// and suggestions, with a per-user LRU cache in front of storage. Writes
// must call Invalidate so the next read recomputes.
type SummaryService struct {
	store RecordStore
	cache *cache.LRUCache[Overview]
}

const (
	overviewCacheSize = 512
	overviewCacheTTL  = 30 * time.Second
)

func NewSummaryService(store RecordStore) *SummaryService {
	return &SummaryService{
		store: store,
		cache: cache.NewLRUCache[Overview](overviewCacheSize, overviewCacheTTL),
	}
}

// Overview returns the aggregated view for one user, from cache when fresh.
func (s *SummaryService) Overview(ctx context.Context, userID int64) (Overview, error) {
	key := cacheKey(userID)
	if ov, ok := s.cache.Get(key); ok {
		return ov, nil
	}

	ov, err := s.build(ctx, userID)
	if err != nil {
		return Overview{}, err
	}

	s.cache.Set(key, ov)
	slog.DebugContext(ctx, "Overview recomputed", "user_id", userID)
	return ov, nil
}

// Invalidate drops the cached overview for a user. Called after every write
// to any of the user's records.
func (s *SummaryService) Invalidate(userID int64) {
	s.cache.Delete(cacheKey(userID))
}

// Cache exposes the underlying cache for cleanup registration.
func (s *SummaryService) Cache() *cache.LRUCache[Overview] {
	return s.cache
}

func (s *SummaryService) build(ctx context.Context, userID int64) (Overview, error) {
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("list expenses: %w", err)
	}
	incomes, err := s.store.ListIncomes(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("list incomes: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("list goals: %w", err)
	}
	investments, err := s.store.ListInvestments(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("list investments: %w", err)
	}
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("list budgets: %w", err)
	}

	return Overview{
		Summary:     core.BuildSummary(expenses, incomes, investments),
		Suggestions: core.BuildSuggestions(expenses, incomes, goals, investments),
		BudgetLines: core.BuildBudgetReport(budgets, expenses),
		Goals:       goals,
	}, nil
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
