package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fingenius/internal/core"
	applog "fingenius/internal/log"
)

type incomePage struct {
	basePage
	Incomes    []core.Income
	Categories []string
	Today      string
	Total      core.Money
}

func (s *Server) handleIncomePage(w http.ResponseWriter, r *http.Request, user core.User) {
	incomes, err := s.store.ListIncomes(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var total core.Money
	for _, in := range incomes {
		total.Cents += in.Amount.Cents
	}

	s.render(w, r, "income.html", incomePage{
		basePage:   s.base(w, r, user.Username),
		Incomes:    incomes,
		Categories: core.DefaultIncomeCategories,
		Today:      core.Today().String(),
		Total:      total,
	})
}

func parseIncome(userID int64, get func(string) string) (core.Income, error) {
	cents, err := core.ParseDecimalToCents(get("amount"))
	if err != nil {
		return core.Income{}, err
	}

	date := core.Today()
	if v := get("date"); v != "" {
		date, err = core.ParseDate(v)
		if err != nil {
			return core.Income{}, err
		}
	}

	in := core.Income{
		UserID:      userID,
		Description: strings.TrimSpace(get("description")),
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(get("category")),
		Date:        date,
	}
	return in, in.Validate()
}

func (s *Server) handleIncomeForm(w http.ResponseWriter, r *http.Request, user core.User) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/income", "Invalid request")
		return
	}

	in, err := parseIncome(user.ID, func(k string) string { return sanitizeInput(r.Form.Get(k)) })
	if err != nil {
		redirectFlash(w, r, "/income", "Could not add income: "+err.Error())
		return
	}

	if _, err := s.store.CreateIncome(r.Context(), in); err != nil {
		slog.ErrorContext(r.Context(), "Income create failed", "user_id", user.ID, "error", err)
		redirectFlash(w, r, "/income", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/income", "Income added!")
}

func (s *Server) handleIncomeDeleteForm(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		redirectFlash(w, r, "/income", "Invalid income")
		return
	}

	if err := s.store.DeleteIncome(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			redirectFlash(w, r, "/income", "Income not found")
			return
		}
		slog.ErrorContext(r.Context(), "Income delete failed", "user_id", user.ID, "record_id", id, "error", err)
		redirectFlash(w, r, "/income", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/income", "Income deleted.")
}

// --- JSON API ---

func (s *Server) apiListIncomes(w http.ResponseWriter, r *http.Request, user core.User) {
	incomes, err := s.store.ListIncomes(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income list failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payloads := make([]incomePayload, 0, len(incomes))
	for _, in := range incomes {
		payloads = append(payloads, toIncomePayload(in))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) apiCreateIncome(w http.ResponseWriter, r *http.Request, user core.User) {
	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := parseIncome(user.ID, p.get)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err = s.store.CreateIncome(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income create failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Income created",
		applog.FieldUserID, user.ID,
		applog.FieldRecordID, in.ID,
		applog.FieldCategory, in.Category,
		applog.FieldAmountCents, in.Amount.Cents)

	s.summaries.Invalidate(user.ID)
	jsonRecord(w, "income", toIncomePayload(in))
}

func (s *Server) apiDeleteIncome(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid income id")
		return
	}

	if err := s.store.DeleteIncome(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "income not found")
			return
		}
		slog.ErrorContext(r.Context(), "Income delete failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonDeleted(w)
}
