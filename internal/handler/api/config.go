// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/model"
)

// ListConfig handles GET /v1/config: every site setting keyed by name.
func (h *Handler) ListConfig(w http.ResponseWriter, r *http.Request) {
	all, err := h.config.All(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, all, nil)
}

// ConfigRequest sets one site setting.
type ConfigRequest struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SetConfig handles PUT /v1/config/{key}.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = model.ConfigTypeString
	}
	userID := middleware.GetUserID(r)
	key := chi.URLParam(r, "key")
	if err := h.config.Set(r.Context(), key, req.Value, req.Type, req.Description, &userID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"key": key, "value": req.Value}, nil)
}

// ListEvents handles GET /v1/eventos: the audit log, filterable by level and
// category.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	size := QueryInt64(r, "size", 50)
	if size < 1 || size > 200 {
		size = 50
	}
	page := QueryInt64(r, "page", 0)
	if page < 0 {
		page = 0
	}

	events, total, err := h.events.ListEvents(r.Context(),
		r.URL.Query().Get("level"), r.URL.Query().Get("category"), size, page*size)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	pages := total / size
	if total%size != 0 {
		pages++
	}
	WriteSuccess(w, events, &Meta{Page: page, Size: size, TotalElements: total, TotalPages: pages})
}
