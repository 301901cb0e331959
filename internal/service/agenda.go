// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/util"
)

// AgendaService manages calendar entries and their notification records.
type AgendaService struct {
	queries *store.Queries
	events  *EventService
}

// NewAgendaService creates a new AgendaService.
func NewAgendaService(db *sql.DB) *AgendaService {
	return &AgendaService{
		queries: store.New(db),
		events:  NewEventService(db),
	}
}

// ParseHora validates a time-of-day string in HH:mm or HH:mm:ss form and
// returns it normalized to HH:mm:ss. Normalized values compare correctly as
// plain strings.
func ParseHora(s string) (string, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", Invalid("invalid time %q, expected HH:mm or HH:mm:ss", s)
}

// ParseFecha validates a calendar date in yyyy-MM-dd form.
func ParseFecha(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", Invalid("invalid date %q, expected yyyy-MM-dd", s)
	}
	return t.Format("2006-01-02"), nil
}

// SaveAgendaInput holds the editable fields of an agenda entry. ID zero means
// create; non-zero means update. Color is intentionally absent: the persisted
// color is always recomputed from Tipo.
type SaveAgendaInput struct {
	ID          int64
	Nombre      string
	Descripcion string
	Lugar       string
	Fecha       string
	HoraInicio  string
	HoraFin     string
	Tipo        string
	Estado      string
	Publico     bool
	Visible     bool
	Documento   *string
}

func (s *AgendaService) validate(in SaveAgendaInput) (SaveAgendaInput, error) {
	if in.Nombre == "" {
		return in, Invalid("nombre is required")
	}
	fecha, err := ParseFecha(in.Fecha)
	if err != nil {
		return in, err
	}
	inicio, err := ParseHora(in.HoraInicio)
	if err != nil {
		return in, err
	}
	fin, err := ParseHora(in.HoraFin)
	if err != nil {
		return in, err
	}
	if fin <= inicio {
		return in, Invalid("horaFin %s must be later than horaInicio %s", in.HoraFin, in.HoraInicio)
	}

	tipo := model.NormalizeTipoAgenda(in.Tipo)
	if !model.IsValidTipoAgenda(tipo) {
		return in, Invalid("unknown tipo %q", in.Tipo)
	}
	estado := model.NormalizeTipoAgenda(in.Estado)
	if estado == "" {
		estado = model.EstadoAgendaPendiente
	}
	if !model.IsValidEstadoAgenda(estado) {
		return in, Invalid("unknown estado %q", in.Estado)
	}

	in.Fecha = fecha
	in.HoraInicio = inicio
	in.HoraFin = fin
	in.Tipo = tipo
	in.Estado = estado
	return in, nil
}

// Save creates or updates an agenda entry. The stored color is always the
// lookup-table color for the normalized tipo, never client input.
func (s *AgendaService) Save(ctx context.Context, in SaveAgendaInput, userID *int64) (model.Agenda, error) {
	in, err := s.validate(in)
	if err != nil {
		return model.Agenda{}, err
	}

	color := model.ColorForTipo(in.Tipo).Background
	now := time.Now()

	var documento sql.NullString
	if in.Documento != nil {
		documento = util.NullStringFromValue(*in.Documento)
	}

	if in.ID == 0 {
		agenda, err := s.queries.CreateAgenda(ctx, store.CreateAgendaParams{
			Nombre:      in.Nombre,
			Descripcion: in.Descripcion,
			Lugar:       in.Lugar,
			Fecha:       in.Fecha,
			HoraInicio:  in.HoraInicio,
			HoraFin:     in.HoraFin,
			Tipo:        in.Tipo,
			Estado:      in.Estado,
			Color:       color,
			Publico:     in.Publico,
			Visible:     in.Visible,
			Documento:   documento,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return model.Agenda{}, fmt.Errorf("creating agenda: %w", err)
		}
		_ = s.events.LogAgendaEvent(ctx, model.EventLevelInfo,
			"agenda created: "+agenda.Nombre, userID, map[string]any{"agenda_id": agenda.ID})
		return agenda, nil
	}

	existing, err := s.queries.GetAgendaByID(ctx, in.ID)
	if err != nil {
		return model.Agenda{}, fmt.Errorf("fetching agenda %d: %w", in.ID, err)
	}
	// Without a new upload the existing attachment is kept.
	if !documento.Valid {
		documento = existing.Documento
	}

	err = s.queries.UpdateAgenda(ctx, store.UpdateAgendaParams{
		ID:          in.ID,
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Lugar:       in.Lugar,
		Fecha:       in.Fecha,
		HoraInicio:  in.HoraInicio,
		HoraFin:     in.HoraFin,
		Tipo:        in.Tipo,
		Estado:      in.Estado,
		Color:       color,
		Publico:     in.Publico,
		Visible:     in.Visible,
		Documento:   documento,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Agenda{}, fmt.Errorf("updating agenda %d: %w", in.ID, err)
	}
	return s.queries.GetAgendaByID(ctx, in.ID)
}

// Mover persists a drag-move or resize: only date and times change, and the
// color is re-stamped from the stored tipo.
func (s *AgendaService) Mover(ctx context.Context, id int64, fecha, horaInicio, horaFin string) (model.Agenda, error) {
	fecha, err := ParseFecha(fecha)
	if err != nil {
		return model.Agenda{}, err
	}
	inicio, err := ParseHora(horaInicio)
	if err != nil {
		return model.Agenda{}, err
	}
	fin, err := ParseHora(horaFin)
	if err != nil {
		return model.Agenda{}, err
	}
	if fin <= inicio {
		return model.Agenda{}, Invalid("horaFin %s must be later than horaInicio %s", horaFin, horaInicio)
	}

	agenda, err := s.queries.GetAgendaByID(ctx, id)
	if err != nil {
		return model.Agenda{}, fmt.Errorf("fetching agenda %d: %w", id, err)
	}

	err = s.queries.UpdateAgendaHorario(ctx, store.UpdateAgendaHorarioParams{
		ID:         id,
		Fecha:      fecha,
		HoraInicio: inicio,
		HoraFin:    fin,
		Color:      model.ColorForTipo(agenda.Tipo).Background,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		return model.Agenda{}, fmt.Errorf("moving agenda %d: %w", id, err)
	}
	return s.queries.GetAgendaByID(ctx, id)
}

// Get fetches one agenda entry.
func (s *AgendaService) Get(ctx context.Context, id int64) (model.Agenda, error) {
	return s.queries.GetAgendaByID(ctx, id)
}

// List returns the full agenda collection.
func (s *AgendaService) List(ctx context.Context) ([]model.Agenda, error) {
	return s.queries.ListAgendas(ctx)
}

// monthBounds returns the first and last day of a yyyy-MM month.
func monthBounds(mes string) (string, string, error) {
	t, err := time.Parse("2006-01", mes)
	if err != nil {
		return "", "", Invalid("invalid month %q, expected yyyy-MM", mes)
	}
	first := t
	last := t.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}

// ListMes returns the agenda entries of one month.
func (s *AgendaService) ListMes(ctx context.Context, mes string) ([]model.Agenda, error) {
	from, to, err := monthBounds(mes)
	if err != nil {
		return nil, err
	}
	return s.queries.ListAgendasBetween(ctx, from, to)
}

// ListMesPublico returns only the public, visible entries of one month for the
// portal calendar.
func (s *AgendaService) ListMesPublico(ctx context.Context, mes string) ([]model.Agenda, error) {
	from, to, err := monthBounds(mes)
	if err != nil {
		return nil, err
	}
	return s.queries.ListAgendasPublicasBetween(ctx, from, to)
}

// Delete removes an agenda entry together with its notification records.
func (s *AgendaService) Delete(ctx context.Context, id int64, userID *int64) error {
	agenda, err := s.queries.GetAgendaByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching agenda %d: %w", id, err)
	}
	if err := s.queries.DeleteNotificacionesByAgenda(ctx, id); err != nil {
		return fmt.Errorf("deleting notifications of agenda %d: %w", id, err)
	}
	if err := s.queries.DeleteAgenda(ctx, id); err != nil {
		return fmt.Errorf("deleting agenda %d: %w", id, err)
	}
	_ = s.events.LogAgendaEvent(ctx, model.EventLevelInfo,
		"agenda deleted: "+agenda.Nombre, userID, map[string]any{"agenda_id": id})
	return nil
}

// NotificarResult reports the outcome of a notification dispatch request.
type NotificarResult struct {
	Queued  []model.AgendaNotificacion `json:"queued"`
	Skipped []string                   `json:"skipped"`
}

// Notificar queues notification records for the given user UUIDs. A user who
// already has a record for this entry is skipped, so re-notifying a larger
// recipient set only reaches the new members.
func (s *AgendaService) Notificar(ctx context.Context, agendaID int64, userUUIDs []string) (NotificarResult, error) {
	if _, err := s.queries.GetAgendaByID(ctx, agendaID); err != nil {
		return NotificarResult{}, fmt.Errorf("fetching agenda %d: %w", agendaID, err)
	}

	var result NotificarResult
	seen := make(map[string]bool, len(userUUIDs))
	for _, uuid := range userUUIDs {
		if uuid == "" || seen[uuid] {
			continue
		}
		seen[uuid] = true

		if _, err := s.queries.GetNotificacion(ctx, agendaID, uuid); err == nil {
			result.Skipped = append(result.Skipped, uuid)
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return NotificarResult{}, fmt.Errorf("looking up notification: %w", err)
		}

		user, err := s.queries.GetUserByUUID(ctx, uuid)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				slog.Warn("notification requested for unknown user", "user_uuid", uuid, "agenda_id", agendaID)
				result.Skipped = append(result.Skipped, uuid)
				continue
			}
			return NotificarResult{}, fmt.Errorf("fetching user %s: %w", uuid, err)
		}

		n, err := s.queries.CreateNotificacion(ctx, store.CreateNotificacionParams{
			AgendaID:  agendaID,
			UserUUID:  uuid,
			Email:     user.Email,
			Status:    model.NotificacionPendiente,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return NotificarResult{}, fmt.Errorf("queueing notification: %w", err)
		}
		result.Queued = append(result.Queued, n)
	}
	return result, nil
}

// Reenviar re-queues an already delivered or failed notification.
func (s *AgendaService) Reenviar(ctx context.Context, agendaID int64, userUUID string) (model.AgendaNotificacion, error) {
	n, err := s.queries.GetNotificacion(ctx, agendaID, userUUID)
	if err != nil {
		return model.AgendaNotificacion{}, fmt.Errorf("fetching notification: %w", err)
	}
	if err := s.queries.ResetNotificacion(ctx, n.ID); err != nil {
		return model.AgendaNotificacion{}, fmt.Errorf("resetting notification %d: %w", n.ID, err)
	}
	return s.queries.GetNotificacion(ctx, agendaID, userUUID)
}

// Notificaciones lists the notification records of one agenda entry.
func (s *AgendaService) Notificaciones(ctx context.Context, agendaID int64) ([]model.AgendaNotificacion, error) {
	return s.queries.ListNotificacionesByAgenda(ctx, agendaID)
}
