// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
)

// Agenda event types.
const (
	TipoAgendaSesiones       = "SESIONES"
	TipoAgendaFiscalizacion  = "FISCALIZACION"
	TipoAgendaRepresentacion = "REPRESENTACION"
	TipoAgendaComisiones     = "COMISIONES"
	TipoAgendaCoordinacion   = "COORDINACION"
	TipoAgendaCapacitacion   = "CAPACITACION"
	TipoAgendaOtros          = "OTROS"
)

// Agenda attendance states.
const (
	EstadoAgendaPendiente  = "PENDIENTE"
	EstadoAgendaAsistira   = "ASISTIRA"
	EstadoAgendaNoAsistira = "NO_ASISTIRA"
)

// TiposAgenda lists every valid event type in display order.
var TiposAgenda = []string{
	TipoAgendaSesiones,
	TipoAgendaFiscalizacion,
	TipoAgendaRepresentacion,
	TipoAgendaComisiones,
	TipoAgendaCoordinacion,
	TipoAgendaCapacitacion,
	TipoAgendaOtros,
}

// EstadosAgenda lists every valid attendance state.
var EstadosAgenda = []string{
	EstadoAgendaPendiente,
	EstadoAgendaAsistira,
	EstadoAgendaNoAsistira,
}

// ColorAgendaDefault is used when an event type has no entry in the lookup table.
const ColorAgendaDefault = "#aaabaf"

// TextColorAgendaDefault is the text color paired with ColorAgendaDefault.
const TextColorAgendaDefault = "#ffffff"

// TipoColor holds the display colors assigned to an event type.
type TipoColor struct {
	Background string
	Text       string
}

// tipoColores maps event types to their display colors. The persisted color of
// an agenda entry is always taken from this table, never from client input.
var tipoColores = map[string]TipoColor{
	TipoAgendaSesiones:       {Background: "#1fef8e", Text: "#0b4f30"},
	TipoAgendaFiscalizacion:  {Background: "#f59e0b", Text: "#5c3a00"},
	TipoAgendaRepresentacion: {Background: "#3b82f6", Text: "#ffffff"},
	TipoAgendaComisiones:     {Background: "#8b5cf6", Text: "#ffffff"},
	TipoAgendaCoordinacion:   {Background: "#14b8a6", Text: "#063f3a"},
	TipoAgendaCapacitacion:   {Background: "#ec4899", Text: "#ffffff"},
	TipoAgendaOtros:          {Background: "#64748b", Text: "#ffffff"},
}

// estadoColores maps attendance states to their badge colors.
var estadoColores = map[string]string{
	EstadoAgendaPendiente:  "#facc15",
	EstadoAgendaAsistira:   "#22c55e",
	EstadoAgendaNoAsistira: "#ef4444",
}

// NormalizeTipoAgenda upper-cases and trims an event type so lookups are
// case-insensitive.
func NormalizeTipoAgenda(tipo string) string {
	return strings.ToUpper(strings.TrimSpace(tipo))
}

// ColorForTipo returns the display colors for an event type. Unknown types get
// the default gray.
func ColorForTipo(tipo string) TipoColor {
	if c, ok := tipoColores[NormalizeTipoAgenda(tipo)]; ok {
		return c
	}
	return TipoColor{Background: ColorAgendaDefault, Text: TextColorAgendaDefault}
}

// ColorForEstado returns the badge color for an attendance state.
func ColorForEstado(estado string) string {
	if c, ok := estadoColores[NormalizeTipoAgenda(estado)]; ok {
		return c
	}
	return ColorAgendaDefault
}

// IsValidTipoAgenda reports whether tipo is a known event type after
// normalization.
func IsValidTipoAgenda(tipo string) bool {
	_, ok := tipoColores[NormalizeTipoAgenda(tipo)]
	return ok
}

// IsValidEstadoAgenda reports whether estado is a known attendance state after
// normalization.
func IsValidEstadoAgenda(estado string) bool {
	_, ok := estadoColores[NormalizeTipoAgenda(estado)]
	return ok
}

// Agenda represents a scheduled council meeting or activity shown on the
// calendar. Fecha uses yyyy-MM-dd, HoraInicio/HoraFin use HH:mm or HH:mm:ss.
type Agenda struct {
	ID          int64          `json:"id"`
	Nombre      string         `json:"nombre"`
	Descripcion string         `json:"descripcion"`
	Lugar       string         `json:"lugar"`
	Fecha       string         `json:"fecha"`
	HoraInicio  string         `json:"horaInicio"`
	HoraFin     string         `json:"horaFin"`
	Tipo        string         `json:"tipo"`
	Estado      string         `json:"estado"`
	Color       string         `json:"color"`
	Publico     bool           `json:"publico"`
	Visible     bool           `json:"visible"`
	Documento   sql.NullString `json:"-"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

// AgendaNotificacion records an email notification sent (or queued) for an
// agenda entry. A user receives at most one notification per entry.
type AgendaNotificacion struct {
	ID        int64          `json:"id"`
	AgendaID  int64          `json:"agendaId"`
	UserUUID  string         `json:"userUuid"`
	Email     string         `json:"email"`
	Status    string         `json:"status"`
	Attempts  int64          `json:"attempts"`
	LastError sql.NullString `json:"-"`
	SentAt    sql.NullTime   `json:"sentAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Notification delivery statuses.
const (
	NotificacionPendiente = "pending"
	NotificacionEnviada   = "sent"
	NotificacionFallida   = "failed"
)
