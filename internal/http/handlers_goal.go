package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"fingenius/internal/core"
)

type goalsPage struct {
	basePage
	Goals []goalView
	Today string
}

// goalView decorates a goal with its progress percentage for the template.
type goalView struct {
	core.Goal
	Progress float64
}

func goalProgress(g core.Goal) float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	pct := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (s *Server) handleGoalsPage(w http.ResponseWriter, r *http.Request, user core.User) {
	goals, err := s.store.ListGoals(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Goal list failed", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView{Goal: g, Progress: goalProgress(g)})
	}

	s.render(w, r, "goals.html", goalsPage{
		basePage: s.base(w, r, user.Username),
		Goals:    views,
		Today:    core.Today().String(),
	})
}

// applyGoalFields overwrites the fields present in the request. Create
// passes a zero goal so required fields fail validation when absent;
// update passes the stored goal so omitted fields keep their values.
func applyGoalFields(g *core.Goal, get func(string) string, has func(string) bool) error {
	if has("name") {
		g.Name = strings.TrimSpace(get("name"))
	}
	if has("description") {
		g.Description = strings.TrimSpace(get("description"))
	}
	if has("target_amount") {
		cents, err := core.ParseDecimalToCents(get("target_amount"))
		if err != nil {
			return err
		}
		g.TargetAmount = core.Money{Cents: cents}
	}
	if has("current_amount") {
		cents, err := core.ParseDecimalToCents(get("current_amount"))
		if err != nil {
			return err
		}
		g.CurrentAmount = core.Money{Cents: cents}
	}
	if has("target_date") {
		if v := get("target_date"); v != "" {
			date, err := core.ParseDate(v)
			if err != nil {
				return err
			}
			g.TargetDate = date
		} else {
			g.TargetDate = core.Date{}
		}
	}
	return g.Validate()
}

func formAccessors(form url.Values) (func(string) string, func(string) bool) {
	get := func(k string) string { return sanitizeInput(form.Get(k)) }
	has := func(k string) bool { _, ok := form[k]; return ok }
	return get, has
}

func (s *Server) handleGoalForm(w http.ResponseWriter, r *http.Request, user core.User) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/goals", "Invalid request")
		return
	}

	g := core.Goal{UserID: user.ID}
	get, has := formAccessors(r.Form)
	if err := applyGoalFields(&g, get, has); err != nil {
		redirectFlash(w, r, "/goals", "Could not add goal: "+err.Error())
		return
	}

	if _, err := s.store.CreateGoal(r.Context(), g); err != nil {
		slog.ErrorContext(r.Context(), "Goal create failed", "user_id", user.ID, "error", err)
		redirectFlash(w, r, "/goals", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/goals", "Goal added!")
}

func (s *Server) handleGoalUpdateForm(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		redirectFlash(w, r, "/goals", "Invalid goal")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/goals", "Invalid request")
		return
	}

	g, err := s.store.GoalByID(r.Context(), user.ID, id)
	if err != nil {
		redirectFlash(w, r, "/goals", "Goal not found")
		return
	}

	get, has := formAccessors(r.Form)
	if err := applyGoalFields(&g, get, has); err != nil {
		redirectFlash(w, r, "/goals", "Could not update goal: "+err.Error())
		return
	}

	if err := s.store.UpdateGoal(r.Context(), g); err != nil {
		slog.ErrorContext(r.Context(), "Goal update failed", "user_id", user.ID, "record_id", id, "error", err)
		redirectFlash(w, r, "/goals", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/goals", "Goal updated!")
}

func (s *Server) handleGoalDeleteForm(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		redirectFlash(w, r, "/goals", "Invalid goal")
		return
	}

	if err := s.store.DeleteGoal(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			redirectFlash(w, r, "/goals", "Goal not found")
			return
		}
		slog.ErrorContext(r.Context(), "Goal delete failed", "user_id", user.ID, "record_id", id, "error", err)
		redirectFlash(w, r, "/goals", "Something went wrong, please try again")
		return
	}

	s.summaries.Invalidate(user.ID)
	redirectFlash(w, r, "/goals", "Goal deleted.")
}

// --- JSON API ---

func (s *Server) apiListGoals(w http.ResponseWriter, r *http.Request, user core.User) {
	goals, err := s.store.ListGoals(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Goal list failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payloads := make([]goalPayload, 0, len(goals))
	for _, g := range goals {
		payloads = append(payloads, toGoalPayload(g))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) apiCreateGoal(w http.ResponseWriter, r *http.Request, user core.User) {
	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g := core.Goal{UserID: user.ID}
	if err := applyGoalFields(&g, p.get, p.has); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := s.store.CreateGoal(r.Context(), g)
	if err != nil {
		slog.ErrorContext(r.Context(), "Goal create failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonRecord(w, "goal", toGoalPayload(g))
}

func (s *Server) apiUpdateGoal(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	p := newBodyParser(r)
	if err := p.parse(); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := s.store.GoalByID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.ErrorContext(r.Context(), "Goal load failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := applyGoalFields(&g, p.get, p.has); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateGoal(r.Context(), g); err != nil {
		slog.ErrorContext(r.Context(), "Goal update failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonRecord(w, "goal", toGoalPayload(g))
}

func (s *Server) apiDeleteGoal(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := s.store.DeleteGoal(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.ErrorContext(r.Context(), "Goal delete failed", "user_id", user.ID, "record_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.summaries.Invalidate(user.ID)
	jsonDeleted(w)
}
