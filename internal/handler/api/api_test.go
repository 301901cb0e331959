// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/cache"
	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/service"
	"github.com/consejoregional/portal-go/internal/session"
	"github.com/consejoregional/portal-go/internal/storage"
	"github.com/consejoregional/portal-go/internal/store"
)

type testAPI struct {
	db      *sql.DB
	handler *Handler
	router  http.Handler
	users   *service.UserService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dir := t.TempDir()
	db, err := store.NewDB(filepath.Join(dir, "portal.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	resolver := storage.NewResolver("http://files.local/archivos", "http://sgd.local/archivos", 2025)
	processor := imaging.NewProcessor(dir)
	mem := cache.NewMemory(time.Minute, time.Minute, 0)
	t.Cleanup(func() { _ = mem.Close() })

	users := service.NewUserService(db, processor, nil)

	h := NewHandler(Deps{
		DB:         db,
		Agendas:    service.NewAgendaService(db),
		Documentos: service.NewDocumentoService(db, resolver, dir),
		Noticias:   service.NewNoticiaService(db, resolver, mem),
		Consejeros: service.NewConsejeroService(db, resolver, processor),
		Users:      users,
		Config:     service.NewConfigService(db, mem),
		Events:     service.NewEventService(db),
		Processor:  processor,
		Sessions:   session.New(db, true),
		JWT:        auth.JWT{Secret: []byte("0123456789abcdef0123456789abcdef"), TokenTTL: time.Hour},
	})

	return &testAPI{
		db:      db,
		handler: h,
		router: h.BuildRouter(RouterConfig{
			IsDev:   true,
			CSRFKey: []byte("0123456789abcdef0123456789abcdef"),
		}),
		users: users,
	}
}

// createTestAdmin registers an enabled user and returns it.
func (a *testAPI) createTestAdmin(t *testing.T, email, password, role string) model.User {
	t.Helper()
	user, _, err := a.users.Create(context.Background(), service.SaveUserInput{
		FirstName: "Ana",
		LastName:  "Quispe",
		Email:     email,
		Role:      role,
		Enabled:   true,
		Password:  password,
	}, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// login authenticates through the real login route and returns the session
// cookies plus the issued bearer token.
func (a *testAPI) login(t *testing.T, email, password string) ([]*http.Cookie, string) {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	return w.Result().Cookies(), resp.Data.Token
}

// do runs a request through the router with optional session cookies.
func (a *testAPI) do(method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	for _, target := range []string{"/health", "/health/live", "/health/ready"} {
		w := a.do(http.MethodGet, target, nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, w.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal %s: %v", target, err)
		}
		if resp["status"] != "ok" {
			t.Errorf("%s status = %v, want ok", target, resp["status"])
		}
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodGet, "/v1/noticias", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginAndSessionAccess(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)

	cookies, token := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")
	if token == "" {
		t.Fatal("expected a bearer token")
	}

	w := a.do(http.MethodGet, "/v1/auth/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}

	// Bearer token works without the cookie.
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer me status = %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)

	w := a.do(http.MethodPost, "/v1/auth/login",
		LoginRequest{Email: "admin@cr.gob.pe", Password: "wrong"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestEditorCannotManageUsers(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "editor@cr.gob.pe", "hunter2hunter2", model.RoleEditor)

	cookies, _ := a.login(t, "editor@cr.gob.pe", "hunter2hunter2")

	w := a.do(http.MethodGet, "/v1/usuarios", nil, cookies)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.Invalid("nombre is required"), http.StatusBadRequest},
		{"not found", sql.ErrNoRows, http.StatusNotFound},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
