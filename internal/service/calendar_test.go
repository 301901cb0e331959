package service

import (
	"testing"

	"github.com/consejoregional/portal-go/internal/model"
)

func testAgenda(tipo, estado string) model.Agenda {
	return model.Agenda{
		ID:         1,
		Nombre:     "Evento",
		Fecha:      "2025-03-10",
		HoraInicio: "09:00:00",
		HoraFin:    "10:00:00",
		Tipo:       tipo,
		Estado:     estado,
	}
}

func TestFiltros_DefaultShowsEverything(t *testing.T) {
	f := NewFiltrosCalendario()
	for _, tipo := range model.TiposAgenda {
		for _, estado := range model.EstadosAgenda {
			if !f.Visible(testAgenda(tipo, estado)) {
				t.Errorf("default filters hide %s/%s", tipo, estado)
			}
		}
	}
}

func TestFiltros_BothSetsMustMatch(t *testing.T) {
	f := FiltrosFrom(
		[]string{model.TipoAgendaSesiones},
		[]string{model.EstadoAgendaAsistira},
	)

	cases := []struct {
		tipo, estado string
		want         bool
	}{
		{model.TipoAgendaSesiones, model.EstadoAgendaAsistira, true},
		{model.TipoAgendaSesiones, model.EstadoAgendaPendiente, false},
		{model.TipoAgendaOtros, model.EstadoAgendaAsistira, false},
		{model.TipoAgendaOtros, model.EstadoAgendaPendiente, false},
	}
	for _, tc := range cases {
		got := f.Visible(testAgenda(tc.tipo, tc.estado))
		if got != tc.want {
			t.Errorf("Visible(%s, %s) = %v, want %v", tc.tipo, tc.estado, got, tc.want)
		}
	}
}

func TestFiltros_EmptySetsHideEverything(t *testing.T) {
	f := FiltrosFrom([]string{}, []string{})
	for _, tipo := range model.TiposAgenda {
		for _, estado := range model.EstadosAgenda {
			if f.Visible(testAgenda(tipo, estado)) {
				t.Errorf("empty filters show %s/%s", tipo, estado)
			}
		}
	}
}

func TestFiltros_CaseInsensitive(t *testing.T) {
	f := FiltrosFrom([]string{"sesiones"}, []string{"pendiente"})
	if !f.Visible(testAgenda("Sesiones", "Pendiente")) {
		t.Error("filter match should be case-insensitive")
	}
}

func TestProyectarEvento(t *testing.T) {
	a := testAgenda(model.TipoAgendaSesiones, model.EstadoAgendaPendiente)
	ev := ProyectarEvento(a, NewFiltrosCalendario())

	if ev.Start != "2025-03-10T09:00:00" {
		t.Errorf("Start = %q", ev.Start)
	}
	if ev.End != "2025-03-10T10:00:00" {
		t.Errorf("End = %q", ev.End)
	}
	if ev.BackgroundColor != "#1fef8e" {
		t.Errorf("BackgroundColor = %q, want #1fef8e", ev.BackgroundColor)
	}
	if ev.Display != "auto" {
		t.Errorf("Display = %q, want auto", ev.Display)
	}
}

func TestProyectarEventos_HiddenKeepsEntry(t *testing.T) {
	agendas := []model.Agenda{
		testAgenda(model.TipoAgendaSesiones, model.EstadoAgendaPendiente),
		testAgenda(model.TipoAgendaOtros, model.EstadoAgendaPendiente),
	}
	f := FiltrosFrom([]string{model.TipoAgendaSesiones}, nil)

	eventos := ProyectarEventos(agendas, f)
	if len(eventos) != 2 {
		t.Fatalf("len = %d, want 2 (hidden events stay in the list)", len(eventos))
	}
	if eventos[0].Display != "auto" {
		t.Errorf("eventos[0].Display = %q, want auto", eventos[0].Display)
	}
	if eventos[1].Display != "none" {
		t.Errorf("eventos[1].Display = %q, want none", eventos[1].Display)
	}
}

func TestProyectarEvento_UnknownTipoGetsDefaultColor(t *testing.T) {
	a := testAgenda("DESCONOCIDO", model.EstadoAgendaPendiente)
	ev := ProyectarEvento(a, NewFiltrosCalendario())
	if ev.BackgroundColor != model.ColorAgendaDefault {
		t.Errorf("BackgroundColor = %q, want %q", ev.BackgroundColor, model.ColorAgendaDefault)
	}
}
