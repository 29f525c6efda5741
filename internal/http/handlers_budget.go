package http

import (
	"log/slog"
	"net/http"
	"sort"

	"fingenius/internal/core"
)

type budgetPage struct {
	basePage
	Lines       []core.BudgetLine
	TotalBudget core.Money
	TotalSpent  core.Money
}

func (s *Server) handleBudgetPage(w http.ResponseWriter, r *http.Request, user core.User) {
	ov, err := s.summaries.Overview(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget report failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var totalBudget, totalSpent core.Money
	for _, line := range ov.BudgetLines {
		totalBudget.Cents += line.BudgetAmount.Cents
		totalSpent.Cents += line.SpentAmount.Cents
	}

	s.render(w, r, "budget.html", budgetPage{
		basePage:    s.base(w, r, user.Username),
		Lines:       ov.BudgetLines,
		TotalBudget: totalBudget,
		TotalSpent:  totalSpent,
	})
}

// handleBudgetForm upserts every default category present in the form.
// Empty inputs count as zero: the category stays tracked but unlimited.
func (s *Server) handleBudgetForm(w http.ResponseWriter, r *http.Request, user core.User) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/budget", "Invalid request")
		return
	}

	for _, cat := range core.DefaultExpenseCategories {
		if _, ok := r.Form[cat]; !ok {
			continue
		}
		raw := sanitizeInput(r.Form.Get(cat))
		var cents int64
		if raw != "" {
			var err error
			cents, err = core.ParseDecimalToCents(raw)
			if err != nil {
				redirectFlash(w, r, "/budget", "Invalid amount for "+cat)
				return
			}
		}
		if err := s.store.UpsertBudget(r.Context(), user.ID, cat, cents); err != nil {
			slog.ErrorContext(r.Context(), "Budget upsert failed", "user_id", user.ID, "category", cat, "error", err)
			redirectFlash(w, r, "/budget", "Something went wrong, please try again")
			return
		}
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/budget", "Budget updated!")
}

// --- JSON API ---

func (s *Server) budgetMap(r *http.Request, userID int64) (map[string]float64, error) {
	budgets, err := s.store.ListBudgets(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		out[b.Category] = b.Amount.Float()
	}
	return out, nil
}

func (s *Server) apiGetBudget(w http.ResponseWriter, r *http.Request, user core.User) {
	budgets, err := s.budgetMap(r, user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// apiUpsertBudget takes a partial category→amount map; only the categories
// in the body change.
func (s *Server) apiUpsertBudget(w http.ResponseWriter, r *http.Request, user core.User) {
	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	keys := p.keys()
	sort.Strings(keys) // deterministic write order
	for _, cat := range keys {
		if cat == "" {
			jsonError(w, http.StatusBadRequest, "empty category")
			return
		}
		raw := p.get(cat)
		var cents int64
		if raw != "" {
			var err error
			cents, err = core.ParseDecimalToCents(raw)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid amount for "+cat)
				return
			}
		}
		if err := s.store.UpsertBudget(r.Context(), user.ID, cat, cents); err != nil {
			slog.ErrorContext(r.Context(), "Budget upsert failed", "user_id", user.ID, "category", cat, "error", err)
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	s.summaries.Invalidate(user.ID)

	budgets, err := s.budgetMap(r, user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "budget": budgets})
}
