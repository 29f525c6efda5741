package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fingenius/internal/core"
	applog "fingenius/internal/log"
)

type expensesPage struct {
	basePage
	Expenses   []core.Expense
	Categories []string
	Today      string
	Total      core.Money
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request, user core.User) {
	expenses, err := s.store.ListExpenses(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var total core.Money
	for _, e := range expenses {
		total.Cents += e.Amount.Cents
	}

	s.render(w, r, "expenses.html", expensesPage{
		basePage:   s.base(w, r, user.Username),
		Expenses:   expenses,
		Categories: core.DefaultExpenseCategories,
		Today:      core.Today().String(),
		Total:      total,
	})
}

// parseExpense builds an expense from either form values or a JSON body.
// An omitted date defaults to today.
func parseExpense(userID int64, get func(string) string) (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(get("amount"))
	if err != nil {
		return core.Expense{}, err
	}

	date := core.Today()
	if v := get("date"); v != "" {
		date, err = core.ParseDate(v)
		if err != nil {
			return core.Expense{}, err
		}
	}

	e := core.Expense{
		UserID:      userID,
		Description: strings.TrimSpace(get("description")),
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(get("category")),
		Date:        date,
	}
	return e, e.Validate()
}

func (s *Server) handleExpenseForm(w http.ResponseWriter, r *http.Request, user core.User) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/expenses", "Invalid request")
		return
	}

	e, err := parseExpense(user.ID, func(k string) string { return sanitizeInput(r.Form.Get(k)) })
	if err != nil {
		redirectFlash(w, r, "/expenses", "Could not add expense: "+err.Error())
		return
	}

	if _, err := s.store.CreateExpense(r.Context(), e); err != nil {
		slog.ErrorContext(r.Context(), "Expense create failed", "user_id", user.ID, "error", err)
		redirectFlash(w, r, "/expenses", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/expenses", "Expense added!")
}

func (s *Server) handleExpenseDeleteForm(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		redirectFlash(w, r, "/expenses", "Invalid expense")
		return
	}

	if err := s.store.DeleteExpense(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			redirectFlash(w, r, "/expenses", "Expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed", "user_id", user.ID, "record_id", id, "error", err)
		redirectFlash(w, r, "/expenses", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/expenses", "Expense deleted.")
}

// --- JSON API ---

func (s *Server) apiListExpenses(w http.ResponseWriter, r *http.Request, user core.User) {
	expenses, err := s.store.ListExpenses(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payloads := make([]expensePayload, 0, len(expenses))
	for _, e := range expenses {
		payloads = append(payloads, toExpensePayload(e))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) apiCreateExpense(w http.ResponseWriter, r *http.Request, user core.User) {
	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := parseExpense(user.ID, p.get)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err = s.store.CreateExpense(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense created",
		applog.FieldUserID, user.ID,
		applog.FieldRecordID, e.ID,
		applog.FieldCategory, e.Category,
		applog.FieldAmountCents, e.Amount.Cents)

	s.summaries.Invalidate(user.ID)
	jsonRecord(w, "expense", toExpensePayload(e))
}

func (s *Server) apiDeleteExpense(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.store.DeleteExpense(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonDeleted(w)
}
