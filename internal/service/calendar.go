// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/consejoregional/portal-go/internal/model"
)

// EventoCalendario is the calendar-widget projection of an agenda entry.
// Start and End are local datetime strings (yyyy-MM-ddTHH:mm:ss); Display is
// "auto" for visible events and "none" for events hidden by the active
// filters.
type EventoCalendario struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	TextColor       string `json:"textColor"`
	Display         string `json:"display"`
	Tipo            string `json:"tipo"`
	Estado          string `json:"estado"`
	EstadoColor     string `json:"estadoColor"`
	Lugar           string `json:"lugar"`
	Descripcion     string `json:"descripcion"`
	Publico         bool   `json:"publico"`
	Documento       string `json:"documento,omitempty"`
}

// FiltrosCalendario holds the two independent filter sets of the calendar
// view. An event is visible iff its tipo AND its estado are both selected.
type FiltrosCalendario struct {
	Tipos   map[string]bool
	Estados map[string]bool
}

// NewFiltrosCalendario returns filters with every tipo and estado selected,
// the initial state of the calendar view.
func NewFiltrosCalendario() FiltrosCalendario {
	f := FiltrosCalendario{
		Tipos:   make(map[string]bool, len(model.TiposAgenda)),
		Estados: make(map[string]bool, len(model.EstadosAgenda)),
	}
	for _, t := range model.TiposAgenda {
		f.Tipos[t] = true
	}
	for _, e := range model.EstadosAgenda {
		f.Estados[e] = true
	}
	return f
}

// FiltrosFrom builds a filter pair from explicit selections. Nil means "all
// selected" for that dimension; an empty non-nil slice selects nothing.
func FiltrosFrom(tipos, estados []string) FiltrosCalendario {
	f := NewFiltrosCalendario()
	if tipos != nil {
		f.Tipos = make(map[string]bool, len(tipos))
		for _, t := range tipos {
			f.Tipos[model.NormalizeTipoAgenda(t)] = true
		}
	}
	if estados != nil {
		f.Estados = make(map[string]bool, len(estados))
		for _, e := range estados {
			f.Estados[model.NormalizeTipoAgenda(e)] = true
		}
	}
	return f
}

// Visible reports whether an agenda entry passes both filter sets.
func (f FiltrosCalendario) Visible(a model.Agenda) bool {
	return f.Tipos[model.NormalizeTipoAgenda(a.Tipo)] &&
		f.Estados[model.NormalizeTipoAgenda(a.Estado)]
}

// ProyectarEvento maps one agenda entry to its widget event. Colors come from
// the tipo lookup table regardless of the stored color column.
func ProyectarEvento(a model.Agenda, f FiltrosCalendario) EventoCalendario {
	colors := model.ColorForTipo(a.Tipo)
	display := "auto"
	if !f.Visible(a) {
		display = "none"
	}

	ev := EventoCalendario{
		ID:              a.ID,
		Title:           a.Nombre,
		Start:           a.Fecha + "T" + a.HoraInicio,
		End:             a.Fecha + "T" + a.HoraFin,
		BackgroundColor: colors.Background,
		BorderColor:     colors.Background,
		TextColor:       colors.Text,
		Display:         display,
		Tipo:            model.NormalizeTipoAgenda(a.Tipo),
		Estado:          model.NormalizeTipoAgenda(a.Estado),
		EstadoColor:     model.ColorForEstado(a.Estado),
		Lugar:           a.Lugar,
		Descripcion:     a.Descripcion,
		Publico:         a.Publico,
	}
	if a.Documento.Valid {
		ev.Documento = a.Documento.String
	}
	return ev
}

// ProyectarEventos maps a whole agenda collection, keeping the input order.
// Hidden events are still returned (Display "none") so toggling a filter back
// on needs no refetch.
func ProyectarEventos(agendas []model.Agenda, f FiltrosCalendario) []EventoCalendario {
	eventos := make([]EventoCalendario, 0, len(agendas))
	for _, a := range agendas {
		eventos = append(eventos, ProyectarEvento(a, f))
	}
	return eventos
}
