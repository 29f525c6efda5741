package http

import (
	"log/slog"
	"net/http"

	"fingenius/internal/core"
)

type dashboardPage struct {
	basePage
	Summary        core.Summary
	LatestExpenses []core.Expense
	LatestIncomes  []core.Income
	Goals          []goalView
	Investments    []core.Investment
	Suggestions    []core.Suggestion
}

const latestCount = 5

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, user core.User) {
	ov, err := s.summaries.Overview(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	expenses, err := s.store.ListExpenses(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	incomes, err := s.store.ListIncomes(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	investments, err := s.store.ListInvestments(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Investment list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if len(expenses) > latestCount {
		expenses = expenses[:latestCount]
	}
	if len(incomes) > latestCount {
		incomes = incomes[:latestCount]
	}

	goals := make([]goalView, 0, len(ov.Goals))
	for _, g := range ov.Goals {
		goals = append(goals, goalView{Goal: g, Progress: goalProgress(g)})
	}

	s.render(w, r, "index.html", dashboardPage{
		basePage:       s.base(w, r, user.Username),
		Summary:        ov.Summary,
		LatestExpenses: expenses,
		LatestIncomes:  incomes,
		Goals:          goals,
		Investments:    investments,
		Suggestions:    ov.Suggestions,
	})
}

type suggestionsPage struct {
	basePage
	Suggestions []core.Suggestion
}

func (s *Server) handleSuggestionsPage(w http.ResponseWriter, r *http.Request, user core.User) {
	ov, err := s.summaries.Overview(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "suggestions.html", suggestionsPage{
		basePage:    s.base(w, r, user.Username),
		Suggestions: ov.Suggestions,
	})
}

// --- JSON API ---

func categoryMap(amounts []core.CategoryAmount) map[string]float64 {
	out := make(map[string]float64, len(amounts))
	for _, a := range amounts {
		out[a.Name] = a.Amount.Float()
	}
	return out
}

func (s *Server) apiSummary(w http.ResponseWriter, r *http.Request, user core.User) {
	ov, err := s.summaries.Overview(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_expenses":      ov.Summary.TotalExpenses.Float(),
		"total_income":        ov.Summary.TotalIncome.Float(),
		"total_investments":   ov.Summary.TotalInvestments.Float(),
		"net_worth":           ov.Summary.NetWorth.Float(),
		"expense_by_category": categoryMap(ov.Summary.ExpenseByCategory),
		"income_by_category":  categoryMap(ov.Summary.IncomeByCategory),
		"investments_by_type": categoryMap(ov.Summary.InvestmentsByType),
	})
}

func (s *Server) apiSuggestions(w http.ResponseWriter, r *http.Request, user core.User) {
	ov, err := s.summaries.Overview(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"suggestions": ov.Suggestions})
}
