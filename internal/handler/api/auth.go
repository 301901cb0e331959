// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/service"
)

// LoginRequest is the request body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued alongside the session cookie.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

// Login authenticates an admin user. On success it rotates the session,
// stores the user id in it and additionally issues a JWT for cookie-less
// clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "email and password are required")
		return
	}

	if locked, remaining := h.logins.IsAccountLocked(req.Email); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("account locked, retry in %s", remaining.Round(time.Second)))
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.logins.RecordFailedAttempt(req.Email)
			h.auditLogin(r, model.EventLevelWarning, "login failed", nil, req.Email)
			WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		case errors.Is(err, service.ErrUserDisabled):
			WriteError(w, http.StatusForbidden, "forbidden", "account disabled")
		default:
			WriteServiceError(w, err)
		}
		return
	}

	h.logins.RecordSuccessfulLogin(req.Email)

	// Session fixation: always rotate the token on privilege change.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "session error")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	token, expiresAt, err := h.jwt.Sign(auth.Claims{UserUUID: user.UUID, Role: user.Role})
	if err != nil {
		WriteInternalError(w, "token error")
		return
	}

	h.auditLogin(r, model.EventLevelInfo, "login succeeded", &user.ID, user.Email)

	WriteSuccess(w, LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "session error")
		return
	}
	if userID != 0 {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "logout", &userID, nil)
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, nil)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	WriteSuccess(w, user, nil)
}

// auditLogin records a login attempt with client context: IP, country and a
// parsed user agent.
func (h *Handler) auditLogin(r *http.Request, level, message string, userID *int64, email string) {
	ip := middleware.ClientIP(r)
	ua := useragent.Parse(r.UserAgent())

	meta := map[string]any{
		"email":   email,
		"ip":      ip,
		"browser": ua.Name,
		"os":      ua.OS,
	}
	if country := h.geo.Country(ip); country != "" {
		meta["country"] = country
	}

	_ = h.events.LogAuthEvent(r.Context(), level, message, userID, meta)
}
