package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fingenius/internal/auth"
	"fingenius/internal/core"
)

type authPage struct {
	basePage
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userFromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", authPage{basePage: s.base(w, r, "")})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/login", "Invalid request")
		return
	}

	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")

	user, err := s.store.UserByUsername(r.Context(), username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.WarnContext(r.Context(), "Login failed", "username", username, "client_ip", s.detector.ExtractClientIP(r))
		redirectFlash(w, r, "/login", "Invalid username or password")
		return
	}

	token, err := s.tokens.Mint(user.ID, user.Username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token mint failed", "user_id", user.ID, "error", err)
		redirectFlash(w, r, "/login", "Something went wrong, please try again")
		return
	}

	s.setSessionCookie(w, token)
	slog.InfoContext(r.Context(), "Login succeeded", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userFromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "register.html", authPage{basePage: s.base(w, r, "")})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/register", "Invalid request")
		return
	}

	username := strings.TrimSpace(r.Form.Get("username"))
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	candidate := core.User{Username: username, Email: email}
	if err := candidate.Validate(); err != nil {
		redirectFlash(w, r, "/register", "Invalid details: "+err.Error())
		return
	}
	if len(password) < 6 {
		redirectFlash(w, r, "/register", "Password must be at least 6 characters")
		return
	}

	// Duplicate checks get distinct messages so users know what to change.
	if _, err := s.store.UserByUsername(r.Context(), username); err == nil {
		redirectFlash(w, r, "/register", "Username already exists")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		slog.ErrorContext(r.Context(), "Username lookup failed", "error", err)
		redirectFlash(w, r, "/register", "Something went wrong, please try again")
		return
	}
	if _, err := s.store.UserByEmail(r.Context(), email); err == nil {
		redirectFlash(w, r, "/register", "Email already registered")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		slog.ErrorContext(r.Context(), "Email lookup failed", "error", err)
		redirectFlash(w, r, "/register", "Something went wrong, please try again")
		return
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash failed", "error", err)
		redirectFlash(w, r, "/register", "Something went wrong, please try again")
		return
	}
	candidate.PasswordHash = hash

	user, err := s.store.CreateUser(r.Context(), candidate)
	if err != nil {
		slog.ErrorContext(r.Context(), "User create failed", "username", username, "error", err)
		redirectFlash(w, r, "/register", "Something went wrong, please try again")
		return
	}

	// Every account starts with a zero-amount budget row per category.
	if err := s.store.SeedDefaultBudgets(r.Context(), user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Budget seed failed", "user_id", user.ID, "error", err)
	}

	redirectFlash(w, r, "/login", "Registration successful! Please log in.")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	redirectFlash(w, r, "/login", "You have been logged out.")
}
