package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devtrack/internal/auth"
	"github.com/sakif/devtrack/internal/service"
)

// AuthHandler manages the Google OAuth login flow and session management.
//
// Routes:
//   - HandleGoogleLogin    → redirect the browser to Google's consent page
//   - HandleGoogleCallback → receive the code, sign the user in, set the cookie
//   - HandleLogout         → clear the session cookie
//   - HandleMe             → return the authenticated user's document
type AuthHandler struct {
	google *auth.GoogleProvider
	auths  *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler with all dependencies injected.
func NewAuthHandler(google *auth.GoogleProvider, auths *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		google: google,
		auths:  auths,
		logger: logger,
	}
}

// HandleGoogleLogin redirects the user to Google's consent page.
//
// HTTP: GET /auth/google/login
//
// A random state value goes into a short-lived HttpOnly cookie; the callback
// verifies it to block forged callbacks.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the sign-in flow.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// Flow: verify the state cookie, resolve a denial or cancellation to a
// redirect with no session, exchange the code for an identity, sign the user
// in (bootstrap + token), set the session cookie, redirect home.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// The user cancelled or denied the consent screen. Not an error: the
	// flow resolves to "no user" and the app continues signed out.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: flow cancelled or denied",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	identity, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: Google exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.auths.SignIn(r.Context(), *identity)
	if err != nil {
		h.logger.Error("auth callback: sign-in failed",
			slog.String("uid", identity.UID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// HttpOnly keeps the token away from page scripts; SameSite=Lax keeps it
	// off cross-site POSTs. Secure should be set in production behind HTTPS.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int((15 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
//
// The token stays technically valid until its 15-minute expiry, but without
// the cookie the browser can no longer send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's full document.
//
// HTTP: GET /api/me
// Auth: required (RequireAuth sets the uid in context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but be safe.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.auths.CurrentUser(r.Context(), uid)
	if err != nil {
		h.logger.Error("HandleMe: loading user failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
