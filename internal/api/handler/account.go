// internal/api/handler/account.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"bank-system/internal/api/middleware"
	"bank-system/internal/service"
	"bank-system/internal/util"
)

// CookieSettings describes the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// AccountHandler handles signup, login, logout and account info.
type AccountHandler struct {
	responder
	accounts service.AccountService
	sessions service.SessionService
	cookie   CookieSettings
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts service.AccountService, sessions service.SessionService, cookie CookieSettings, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: logger},
		accounts:  accounts,
		sessions:  sessions,
		cookie:    cookie,
	}
}

// Signup registers a new account.
// POST /api/signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.accounts.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, account)
}

// Login opens a session and hands its token back as a cookie.
// POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	session, account, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Login successful! Welcome %s", account.Username),
		"account": account,
	})
}

// Logout invalidates the current session, if any, and clears the cookie.
// POST /api/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil {
			h.respondWithError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully!"})
}

// UserInfo returns the logged in account with its current balance.
// GET /api/user-info
func (h *AccountHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthenticated)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), session.AccountID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, account)
}
