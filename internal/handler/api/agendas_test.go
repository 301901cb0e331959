// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/service"
)

func TestAgendaCreateAndMove(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")

	w := a.do(http.MethodPost, "/v1/agendas", AgendaRequest{
		Nombre:     "Sesión ordinaria",
		Fecha:      "2026-03-10",
		HoraInicio: "09:00",
		HoraFin:    "11:00",
		Tipo:       "sesiones",
		Publico:    true,
		Visible:    true,
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		Data model.Agenda `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Data.Tipo != model.TipoAgendaSesiones {
		t.Errorf("tipo = %q, want %q", created.Data.Tipo, model.TipoAgendaSesiones)
	}
	if created.Data.Color != "#1fef8e" {
		t.Errorf("color = %q, want #1fef8e", created.Data.Color)
	}

	w = a.do(http.MethodPatch, "/v1/agendas/1/horario", HorarioRequest{
		Fecha:      "2026-03-12",
		HoraInicio: "10:00",
		HoraFin:    "12:30",
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d, body %s", w.Code, w.Body.String())
	}

	var moved struct {
		Data model.Agenda `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &moved); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if moved.Data.Fecha != "2026-03-12" || moved.Data.HoraFin != "12:30:00" {
		t.Errorf("unexpected horario after move: %+v", moved.Data)
	}
}

func TestAgendaEditRoundTrip(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")

	w := a.do(http.MethodPost, "/v1/agendas", AgendaRequest{
		Nombre:     "Sesión ordinaria",
		Fecha:      "2026-03-10",
		HoraInicio: "09:00",
		HoraFin:    "11:00",
		Tipo:       "sesiones",
		Publico:    true,
		Visible:    true,
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	// The edit modal loads the record and PUTs it back whole, including the
	// server-computed id and color. The stale color must be ignored and
	// recomputed from the new tipo.
	w = a.do(http.MethodGet, "/v1/agendas/1", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}
	var loaded struct {
		Data model.Agenda `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.Data.Color != "#1fef8e" {
		t.Fatalf("loaded color = %q, want #1fef8e", loaded.Data.Color)
	}

	edited := loaded.Data
	edited.Tipo = "coordinacion"

	w = a.do(http.MethodPut, "/v1/agendas/1", edited, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	var updated struct {
		Data model.Agenda `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if updated.Data.Tipo != model.TipoAgendaCoordinacion {
		t.Errorf("tipo = %q, want %q", updated.Data.Tipo, model.TipoAgendaCoordinacion)
	}
	if want := model.ColorForTipo(model.TipoAgendaCoordinacion).Background; updated.Data.Color != want {
		t.Errorf("color = %q, want %q (carried-over color must not persist)", updated.Data.Color, want)
	}
}

func TestAgendaRejectsInvertedHorario(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")

	w := a.do(http.MethodPost, "/v1/agendas", AgendaRequest{
		Nombre:     "Reunión",
		Fecha:      "2026-03-10",
		HoraInicio: "11:00",
		HoraFin:    "09:00",
		Tipo:       model.TipoAgendaCoordinacion,
	}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPrincipalAgendasMesOnlyPublic(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")

	for _, in := range []AgendaRequest{
		{Nombre: "Pública", Fecha: "2026-03-10", HoraInicio: "09:00", HoraFin: "10:00",
			Tipo: model.TipoAgendaSesiones, Publico: true, Visible: true},
		{Nombre: "Interna", Fecha: "2026-03-11", HoraInicio: "09:00", HoraFin: "10:00",
			Tipo: model.TipoAgendaCoordinacion, Publico: false, Visible: true},
	} {
		if w := a.do(http.MethodPost, "/v1/agendas", in, cookies); w.Code != http.StatusCreated {
			t.Fatalf("create status = %d", w.Code)
		}
	}

	w := a.do(http.MethodGet, "/public/principal/agendas/mes/2026-03", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Data []service.EventoCalendario `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("events = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].Title != "Pública" {
		t.Errorf("title = %q", resp.Data[0].Title)
	}
}

func TestQueryList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?tipos=SESIONES,%20REUNIONES&estados=", nil)

	tipos := queryList(req, "tipos")
	if len(tipos) != 2 || tipos[1] != "REUNIONES" {
		t.Errorf("tipos = %v", tipos)
	}

	// Present but empty means "nothing selected", not "no filter".
	estados := queryList(req, "estados")
	if estados == nil || len(estados) != 0 {
		t.Errorf("estados = %v, want empty non-nil", estados)
	}

	if missing := queryList(req, "otros"); missing != nil {
		t.Errorf("missing param = %v, want nil", missing)
	}
}
