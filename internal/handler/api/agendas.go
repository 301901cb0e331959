// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/service"
)

// AgendaRequest is the request body for creating or updating a calendar
// entry. The color is never accepted from the client; it is derived from the
// type on every save.
type AgendaRequest struct {
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Lugar       string  `json:"lugar"`
	Fecha       string  `json:"fecha"`
	HoraInicio  string  `json:"horaInicio"`
	HoraFin     string  `json:"horaFin"`
	Tipo        string  `json:"tipo"`
	Estado      string  `json:"estado"`
	Publico     bool    `json:"publico"`
	Visible     bool    `json:"visible"`
	Documento   *string `json:"documento,omitempty"`
}

func (req AgendaRequest) toInput(id int64) service.SaveAgendaInput {
	return service.SaveAgendaInput{
		ID:          id,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Lugar:       req.Lugar,
		Fecha:       req.Fecha,
		HoraInicio:  req.HoraInicio,
		HoraFin:     req.HoraFin,
		Tipo:        req.Tipo,
		Estado:      req.Estado,
		Publico:     req.Publico,
		Visible:     req.Visible,
		Documento:   req.Documento,
	}
}

// queryList parses a comma-separated query parameter. A missing parameter
// returns nil (meaning "no filter"), an explicitly empty one returns an empty
// slice (meaning "nothing selected").
func queryList(r *http.Request, name string) []string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ListAgendas handles GET /v1/agendas.
func (h *Handler) ListAgendas(w http.ResponseWriter, r *http.Request) {
	agendas, err := h.agendas.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, agendas, nil)
}

// GetAgenda handles GET /v1/agendas/{id}.
func (h *Handler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	agenda, err := h.agendas.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, agenda, nil)
}

// AgendasMes handles GET /v1/agendas/mes/{mes}. The month is yyyy-MM; the
// optional tipos and estados parameters filter the projection without
// dropping entries, so the client can toggle filters locally.
func (h *Handler) AgendasMes(w http.ResponseWriter, r *http.Request) {
	agendas, err := h.agendas.ListMes(r.Context(), chi.URLParam(r, "mes"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	filtros := service.FiltrosFrom(queryList(r, "tipos"), queryList(r, "estados"))
	WriteSuccess(w, service.ProyectarEventos(agendas, filtros), nil)
}

// CreateAgenda handles POST /v1/agendas.
func (h *Handler) CreateAgenda(w http.ResponseWriter, r *http.Request) {
	var req AgendaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	userID := middleware.GetUserID(r)
	agenda, err := h.agendas.Save(r.Context(), req.toInput(0), &userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, agenda)
}

// UpdateAgenda handles PUT /v1/agendas/{id}.
func (h *Handler) UpdateAgenda(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req AgendaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	userID := middleware.GetUserID(r)
	agenda, err := h.agendas.Save(r.Context(), req.toInput(id), &userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, agenda, nil)
}

// HorarioRequest is the body of a drag-and-drop reschedule.
type HorarioRequest struct {
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"horaInicio"`
	HoraFin    string `json:"horaFin"`
}

// MoverAgenda handles PATCH /v1/agendas/{id}/horario.
func (h *Handler) MoverAgenda(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req HorarioRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	agenda, err := h.agendas.Mover(r.Context(), id, req.Fecha, req.HoraInicio, req.HoraFin)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, agenda, nil)
}

// DeleteAgenda handles DELETE /v1/agendas/{id}.
func (h *Handler) DeleteAgenda(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	userID := middleware.GetUserID(r)
	if err := h.agendas.Delete(r.Context(), id, &userID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ListNotificaciones handles GET /v1/agendas/{id}/notificaciones.
func (h *Handler) ListNotificaciones(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	notifs, err := h.agendas.Notificaciones(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, notifs, nil)
}

// NotificarRequest names the entry and the users to convoke.
type NotificarRequest struct {
	AgendaID  int64    `json:"agendaId"`
	UserUUIDs []string `json:"userUuids"`
}

// Notificar handles POST /v1/agendas/notificar. Users that already hold a
// notification for the entry are skipped.
func (h *Handler) Notificar(w http.ResponseWriter, r *http.Request) {
	var req NotificarRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	result, err := h.agendas.Notificar(r.Context(), req.AgendaID, req.UserUUIDs)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, result, nil)
}

// ReenviarRequest names the user whose convocatoria is re-queued.
type ReenviarRequest struct {
	UserUUID string `json:"userUuid"`
}

// ReenviarNotificacion handles POST /v1/agendas/{id}/reenviar.
func (h *Handler) ReenviarNotificacion(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req ReenviarRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	notif, err := h.agendas.Reenviar(r.Context(), id, req.UserUUID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, notif, nil)
}
