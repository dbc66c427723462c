// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"eventdesk/internal/auth"
	"eventdesk/internal/middleware"
	"eventdesk/internal/model"
	"eventdesk/internal/render"
	"eventdesk/internal/store"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	facade          *auth.Facade
	google          *auth.GoogleProvider
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. The google provider may be
// nil when federated sign-in is not configured.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, google *auth.GoogleProvider) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		facade:          auth.NewFacade(db),
		google:          google,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// authPageData is the template payload for the login and register pages.
type authPageData struct {
	GoogleEnabled bool
}

// redirectSignedIn sends an already-authenticated user to their landing
// page: admins to event management, everyone else to the public listing.
func (h *AuthHandler) redirectSignedIn(w http.ResponseWriter, r *http.Request) bool {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)
	if userID == 0 {
		return false
	}
	user, err := h.queries.GetUserByID(r.Context(), userID)
	if err == nil && user.IsAdmin() {
		http.Redirect(w, r, redirectAdminEvents, http.StatusSeeOther)
		return true
	}
	http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
	return true
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectSignedIn(w, r) {
		return
	}

	err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Sign In",
		Data:  authPageData{GoogleEnabled: h.google != nil},
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required.")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.facade.Login(r.Context(), email, password)
	if err != nil {
		if pe := auth.AsProviderError(err); pe != nil {
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
					flashError(w, r, h.renderer, redirectLogin,
						fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
					return
				}
			}
			flashError(w, r, h.renderer, redirectLogin, auth.LoginErrorMessage(err))
			return
		}
		slog.Error("login failed", "error", err)
		flashError(w, r, h.renderer, redirectLogin, auth.LoginErrorMessage(err))
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	h.completeSignIn(w, r, user, fmt.Sprintf("Welcome back, %s!", user.Name))
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectSignedIn(w, r) {
		return
	}

	err := h.renderer.Render(w, r, "auth/register", render.TemplateData{
		Title: "Create Account",
		Data:  authPageData{GoogleEnabled: h.google != nil},
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if len(name) < 2 {
		flashError(w, r, h.renderer, redirectRegister, "Name must be at least 2 characters.")
		return
	}
	if password != confirm {
		flashError(w, r, h.renderer, redirectRegister, "Passwords do not match.")
		return
	}
	if r.FormValue("terms") == "" {
		flashError(w, r, h.renderer, redirectRegister, "You must agree to the terms and conditions.")
		return
	}

	user, err := h.facade.Register(r.Context(), name, email, password)
	if err != nil {
		if auth.AsProviderError(err) == nil {
			slog.Error("registration failed", "error", err)
		}
		flashError(w, r, h.renderer, redirectRegister, auth.RegisterErrorMessage(err))
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	h.completeSignIn(w, r, user, "Account created successfully!")
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)

	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out.", "info")
}

// GoogleLogin starts the Google sign-in flow.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		flashError(w, r, h.renderer, redirectLogin, "Google sign-in is not configured.")
		return
	}

	state := uuid.New().String()
	h.sessionManager.Put(r.Context(), SessionKeyOAuthState, state)

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusSeeOther)
}

// GoogleCallback completes the Google sign-in flow.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	wantState := h.sessionManager.PopString(r.Context(), SessionKeyOAuthState)
	if wantState == "" || r.URL.Query().Get("state") != wantState {
		slog.Warn("oauth state mismatch", "remote_addr", r.RemoteAddr)
		flashError(w, r, h.renderer, redirectLogin, "Sign-in session expired. Please try again.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		flashError(w, r, h.renderer, redirectLogin, "Google sign-in was cancelled.")
		return
	}

	claims, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google token exchange failed", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Google sign-in failed. Please try again.")
		return
	}

	user, err := h.facade.CompleteFederatedLogin(r.Context(), claims)
	if err != nil {
		slog.Error("federated login failed", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Google sign-in failed. Please try again.")
		return
	}

	h.completeSignIn(w, r, user, fmt.Sprintf("Welcome, %s!", user.Name))
}

// completeSignIn establishes the session and redirects by role.
func (h *AuthHandler) completeSignIn(w http.ResponseWriter, r *http.Request, user model.User, message string) {
	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)

	slog.Info("user signed in", "user_id", user.ID, "email", user.Email)

	h.renderer.SetFlash(r, message, "success")

	if user.IsAdmin() {
		http.Redirect(w, r, redirectAdminEvents, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
