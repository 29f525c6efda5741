package http

import (
	"log/slog"
	"net/http"
)

// render executes a page template, carrying the one-shot flash message.
// Data structs embed basePage so the layout partials always find Username
// and Flash.
type basePage struct {
	Username string
	Flash    string
}

func (s *Server) base(w http.ResponseWriter, r *http.Request, username string) basePage {
	return basePage{
		Username: username,
		Flash:    popFlash(w, r),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// redirectFlash sets a flash message and redirects (PRG after form posts).
func redirectFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		flash(w, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
