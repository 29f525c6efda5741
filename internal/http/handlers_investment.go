package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fingenius/internal/core"
)

type investmentsPage struct {
	basePage
	Investments []core.Investment
	Types       []string
	Today       string
	TotalValue  core.Money
}

func (s *Server) handleInvestmentsPage(w http.ResponseWriter, r *http.Request, user core.User) {
	investments, err := s.store.ListInvestments(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Investment list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var total core.Money
	for _, inv := range investments {
		total.Cents += inv.CurrentValue.Cents
	}

	s.render(w, r, "investments.html", investmentsPage{
		basePage:    s.base(w, r, user.Username),
		Investments: investments,
		Types:       core.InvestmentTypes,
		Today:       core.Today().String(),
		TotalValue:  total,
	})
}

// applyInvestmentFields overwrites the fields present in the request.
// An absent current_value on create mirrors the purchase amount; sending
// an empty current_value resets it to the purchase amount.
func applyInvestmentFields(inv *core.Investment, get func(string) string, has func(string) bool) error {
	if has("name") {
		inv.Name = strings.TrimSpace(get("name"))
	}
	if has("type") {
		inv.Type = strings.TrimSpace(get("type"))
	}
	if has("notes") {
		inv.Notes = strings.TrimSpace(get("notes"))
	}
	if has("amount") {
		cents, err := core.ParseDecimalToCents(get("amount"))
		if err != nil {
			return err
		}
		inv.Amount = core.Money{Cents: cents}
	}
	if has("purchase_date") {
		date, err := core.ParseDate(get("purchase_date"))
		if err != nil {
			return err
		}
		inv.PurchaseDate = date
	}
	if has("current_value") {
		if v := get("current_value"); v != "" {
			cents, err := core.ParseDecimalToCents(v)
			if err != nil {
				return err
			}
			inv.CurrentValue = core.Money{Cents: cents}
		} else {
			inv.CurrentValue = inv.Amount
		}
	} else if inv.CurrentValue.Cents == 0 {
		inv.CurrentValue = inv.Amount
	}
	return inv.Validate()
}

func (s *Server) handleInvestmentForm(w http.ResponseWriter, r *http.Request, user core.User) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/investments", "Invalid request")
		return
	}

	inv := core.Investment{UserID: user.ID}
	get, has := formAccessors(r.Form)
	if err := applyInvestmentFields(&inv, get, has); err != nil {
		redirectFlash(w, r, "/investments", "Could not add investment: "+err.Error())
		return
	}

	if _, err := s.store.CreateInvestment(r.Context(), inv); err != nil {
		slog.ErrorContext(r.Context(), "Investment create failed", "user_id", user.ID, "error", err)
		redirectFlash(w, r, "/investments", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/investments", "Investment added!")
}

func (s *Server) handleInvestmentUpdateForm(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		redirectFlash(w, r, "/investments", "Invalid investment")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/investments", "Invalid request")
		return
	}

	inv, err := s.store.InvestmentByID(r.Context(), user.ID, id)
	if err != nil {
		redirectFlash(w, r, "/investments", "Investment not found")
		return
	}

	get, has := formAccessors(r.Form)
	if err := applyInvestmentFields(&inv, get, has); err != nil {
		redirectFlash(w, r, "/investments", "Could not update investment: "+err.Error())
		return
	}

	if err := s.store.UpdateInvestment(r.Context(), inv); err != nil {
		slog.ErrorContext(r.Context(), "Investment update failed", "user_id", user.ID, "record_id", id, "error", err)
		redirectFlash(w, r, "/investments", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/investments", "Investment updated!")
}

func (s *Server) handleInvestmentDeleteForm(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		redirectFlash(w, r, "/investments", "Invalid investment")
		return
	}

	if err := s.store.DeleteInvestment(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			redirectFlash(w, r, "/investments", "Investment not found")
			return
		}
		slog.ErrorContext(r.Context(), "Investment delete failed", "user_id", user.ID, "record_id", id, "error", err)
		redirectFlash(w, r, "/investments", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/investments", "Investment deleted.")
}

// --- JSON API ---

func (s *Server) apiListInvestments(w http.ResponseWriter, r *http.Request, user core.User) {
	investments, err := s.store.ListInvestments(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Investment list failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payloads := make([]investmentPayload, 0, len(investments))
	for _, inv := range investments {
		payloads = append(payloads, toInvestmentPayload(inv))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) apiCreateInvestment(w http.ResponseWriter, r *http.Request, user core.User) {
	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv := core.Investment{UserID: user.ID}
	if err := applyInvestmentFields(&inv, p.get, p.has); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := s.store.CreateInvestment(r.Context(), inv)
	if err != nil {
		slog.ErrorContext(r.Context(), "Investment create failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonRecord(w, "investment", toInvestmentPayload(inv))
}

func (s *Server) apiUpdateInvestment(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := s.store.InvestmentByID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "investment not found")
			return
		}
		slog.ErrorContext(r.Context(), "Investment load failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := applyInvestmentFields(&inv, p.get, p.has); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateInvestment(r.Context(), inv); err != nil {
		slog.ErrorContext(r.Context(), "Investment update failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonRecord(w, "investment", toInvestmentPayload(inv))
}

func (s *Server) apiDeleteInvestment(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	if err := s.store.DeleteInvestment(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "investment not found")
			return
		}
		slog.ErrorContext(r.Context(), "Investment delete failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonDeleted(w)
}
