package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"fingenius/internal/core"
)

const (
	sessionCookieName = "fingenius_session"
	flashCookieName   = "fingenius_flash"
)

// authedHandler is a handler that runs with a resolved user. Every record
// operation goes through one of these; there is no anonymous data access.
type authedHandler func(w http.ResponseWriter, r *http.Request, user core.User)

// requirePage gates an HTML handler: unauthenticated requests are sent to
// the login page.
func (s *Server) requirePage(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.userFromRequest(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

// requireAPI gates a JSON handler: unauthenticated requests get 401 JSON.
func (s *Server) requireAPI(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.userFromRequest(r)
		if !ok {
			jsonError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r, user)
	}
}

// userFromRequest resolves the session token from the cookie or an
// Authorization: Bearer header and loads the user. A valid token for a
// since-deleted user does not authenticate.
func (s *Server) userFromRequest(r *http.Request) (core.User, bool) {
	token := ""
	if c, err := r.Cookie(sessionCookieName); err == nil {
		token = c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if rest, found := strings.CutPrefix(h, "Bearer "); found {
			token = strings.TrimSpace(rest)
		}
	}
	if token == "" {
		return core.User{}, false
	}

	userID, _, err := s.tokens.Verify(token)
	if err != nil {
		return core.User{}, false
	}

	user, err := s.store.UserByID(r.Context(), userID)
	if err != nil {
		slog.WarnContext(r.Context(), "Session user not found", "user_id", userID, "error", err)
		return core.User{}, false
	}
	return user, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// flash stores a one-shot message; the next rendered page pops it.
// Base64 keeps arbitrary text within the cookie value charset.
func flash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash message, clearing it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
