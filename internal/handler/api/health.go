// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/consejoregional/portal-go/internal/version"
)

var startTime = time.Now()

// Health handles GET /health: overall status including a database ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}

	WriteJSON(w, status, map[string]any{
		"status":   dbStatus,
		"version":  version.Version,
		"uptime":   time.Since(startTime).Round(time.Second).String(),
		"database": dbStatus,
	})
}

// Liveness handles GET /health/live: process liveness only, no dependencies
// touched.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
