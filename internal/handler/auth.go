package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/service"
)

// AuthHandler manages registration, login, and the GitHub OAuth flow.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister       → create an account from username/email/password
//   - HandleLogin          → verify credentials and issue a session token
//   - HandleMe             → return the caller's own profile
//   - HandleDeleteMe       → delete the caller's account (sessions die with it)
//   - HandleGitHubLogin    → redirect the browser to GitHub's authorization page
//   - HandleGitHubCallback → receive the code, exchange it, issue a session token
type AuthHandler struct {
	service *service.AuthService
	github  *auth.GitHubProvider
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(service *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		github:  github,
		logger:  logger,
	}
}

// registerRequest is the JSON body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the JSON body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /auth/register
// REQUEST BODY: {"username": "alice", "email": "a@example.com", "password": "..."}
// RESPONSE: 201 {"message": "User registered successfully", "userId": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// HandleLogin verifies credentials and returns a fresh session token.
//
// HTTP: POST /auth/login
// REQUEST BODY: {"username": "alice", "password": "..."}
// RESPONSE: 200 {"token": "..."}
//
// The client sends the token string back as "Authorization: Bearer <token>"
// on every subsequent request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /auth/me
//
// This is useful for the frontend to know who is logged in and to check
// authentication state on app load.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("You must be logged in"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDeleteMe deletes the caller's own account.
//
// HTTP: DELETE /auth/me
//
// Everything hanging off the account — sessions, resources, comments,
// likes — is removed by the database's cascading deletes, so the token
// used to make this very request stops working the moment it returns.
func (h *AuthHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := h.service.DeleteAccount(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// CSRF PROTECTION VIA STATE:
// We generate a random state string and store it in a short-lived cookie.
// When GitHub calls back, HandleGitHubCallback verifies the state matches.
// This proves the callback was initiated by this server, not a CSRF attacker.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a GitHub user profile
//  3. Find or provision the matching local account
//  4. Issue a session token, returned as JSON like a password login
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch",
			slog.String("expected", stateCookie.Value),
			slog.String("got", r.URL.Query().Get("state")),
		)
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// Clear the state cookie — it's single-use
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// GitHub reports "the user clicked deny" as an error query parameter
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		writeError(w, apperror.Unauthorized("GitHub authorization was denied"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	token, err := h.service.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
