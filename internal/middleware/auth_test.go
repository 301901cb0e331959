// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consejoregional/portal-go/internal/model"
)

func requestWithUser(user model.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/usuarios", nil)
	ctx := context.WithValue(r.Context(), ContextKeyUser, user)
	return r.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole_AdminAllowsAdmin(t *testing.T) {
	handler := RequireRole(model.RoleAdmin)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(model.User{ID: 1, Role: model.RoleAdmin}))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_AdminRejectsEditor(t *testing.T) {
	handler := RequireRole(model.RoleAdmin)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(model.User{ID: 2, Role: model.RoleEditor}))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRole_EditorAllowsAdmin(t *testing.T) {
	handler := RequireRole(model.RoleEditor)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(model.User{ID: 1, Role: model.RoleAdmin}))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_NoUser(t *testing.T) {
	handler := RequireRole(model.RoleEditor)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agendas", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetUser(t *testing.T) {
	user := model.User{ID: 7, Email: "editor@example.com", Role: model.RoleEditor}

	got := GetUser(requestWithUser(user))
	if got == nil {
		t.Fatal("GetUser returned nil")
	}
	if got.ID != 7 {
		t.Errorf("ID = %d, want 7", got.ID)
	}

	if got := GetUser(httptest.NewRequest(http.MethodGet, "/", nil)); got != nil {
		t.Errorf("GetUser without context = %+v, want nil", got)
	}
}

func TestGetUserNullID(t *testing.T) {
	id := GetUserNullID(requestWithUser(model.User{ID: 3}))
	if !id.Valid || id.Int64 != 3 {
		t.Errorf("GetUserNullID = %+v, want valid 3", id)
	}

	id = GetUserNullID(httptest.NewRequest(http.MethodGet, "/", nil))
	if id.Valid {
		t.Errorf("GetUserNullID without user = %+v, want invalid", id)
	}
}
