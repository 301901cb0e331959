// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestColorForTipo(t *testing.T) {
	tests := []struct {
		tipo string
		want string
	}{
		{"SESIONES", "#1fef8e"},
		{"sesiones", "#1fef8e"},
		{"  Sesiones ", "#1fef8e"},
		{"FISCALIZACION", "#f59e0b"},
		{"REPRESENTACION", "#3b82f6"},
		{"COMISIONES", "#8b5cf6"},
		{"COORDINACION", "#14b8a6"},
		{"CAPACITACION", "#ec4899"},
		{"OTROS", "#64748b"},
		{"desconocido", ColorAgendaDefault},
		{"", ColorAgendaDefault},
	}

	for _, tt := range tests {
		t.Run(tt.tipo, func(t *testing.T) {
			if got := ColorForTipo(tt.tipo).Background; got != tt.want {
				t.Errorf("ColorForTipo(%q).Background = %q, want %q", tt.tipo, got, tt.want)
			}
		})
	}
}

func TestColorForTipo_AllTiposHaveColors(t *testing.T) {
	for _, tipo := range TiposAgenda {
		c := ColorForTipo(tipo)
		if c.Background == ColorAgendaDefault {
			t.Errorf("tipo %q has no color table entry", tipo)
		}
		if c.Text == "" {
			t.Errorf("tipo %q has no text color", tipo)
		}
	}
}

func TestColorForEstado(t *testing.T) {
	tests := []struct {
		estado string
		want   string
	}{
		{"PENDIENTE", "#facc15"},
		{"pendiente", "#facc15"},
		{"ASISTIRA", "#22c55e"},
		{"NO_ASISTIRA", "#ef4444"},
		{"otro", ColorAgendaDefault},
	}

	for _, tt := range tests {
		t.Run(tt.estado, func(t *testing.T) {
			if got := ColorForEstado(tt.estado); got != tt.want {
				t.Errorf("ColorForEstado(%q) = %q, want %q", tt.estado, got, tt.want)
			}
		})
	}
}

func TestIsValidTipoAgenda(t *testing.T) {
	for _, tipo := range TiposAgenda {
		if !IsValidTipoAgenda(tipo) {
			t.Errorf("expected %q to be valid", tipo)
		}
	}
	if IsValidTipoAgenda("REUNION") {
		t.Error("expected unknown tipo to be invalid")
	}
}

func TestIsValidEstadoAgenda(t *testing.T) {
	for _, estado := range EstadosAgenda {
		if !IsValidEstadoAgenda(estado) {
			t.Errorf("expected %q to be valid", estado)
		}
	}
	if IsValidEstadoAgenda("CONFIRMADO") {
		t.Error("expected unknown estado to be invalid")
	}
}
