// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and security headers.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser carries the authenticated user.
const ContextKeyUser ContextKey = "user"

// SessionKeyUserID is the session key holding the logged-in user id.
const SessionKeyUserID = "user_id"

type authError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var e authError
	e.Error.Code = code
	e.Error.Message = message
	_ = json.NewEncoder(w).Encode(e)
}

// Auth requires an authenticated admin: either a session created by the login
// endpoint or a bearer token. The resolved user is stored in the request
// context.
func Auth(sm *scs.SessionManager, jwt auth.JWT, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				user model.User
				err  error
			)

			if userID := sm.GetInt64(r.Context(), SessionKeyUserID); userID != 0 {
				user, err = queries.GetUserByID(r.Context(), userID)
				if err != nil {
					_ = sm.Destroy(r.Context())
					writeAuthError(w, http.StatusUnauthorized, "unauthorized", "session expired")
					return
				}
			} else if tok := auth.BearerToken(r.Header.Get("Authorization")); tok != "" {
				claims, verr := jwt.Verify(tok)
				if verr != nil {
					writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
					return
				}
				user, err = queries.GetUserByUUID(r.Context(), claims.UserUUID)
				if err != nil {
					writeAuthError(w, http.StatusUnauthorized, "unauthorized", "unknown user")
					return
				}
			} else {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if !user.Enabled {
				writeAuthError(w, http.StatusForbidden, "forbidden", "account disabled")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetUserNullID returns the current user's ID as a sql.NullInt64 for event and
// audit records.
func GetUserNullID(r *http.Request) sql.NullInt64 {
	if user := GetUser(r); user != nil {
		return sql.NullInt64{Int64: user.ID, Valid: true}
	}
	return sql.NullInt64{}
}

// roleLevel returns a numeric level for role hierarchy.
func roleLevel(role string) int {
	switch role {
	case model.RoleAdmin:
		return 2
	case model.RoleEditor:
		return 1
	default:
		return 0
	}
}

// RequireRole requires a minimum user role. Roles are hierarchical:
// admin > editor.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	minLevel := roleLevel(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if roleLevel(user.Role) < minLevel {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
				)
				writeAuthError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin requires the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}
