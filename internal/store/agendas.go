// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
)

const agendaColumns = `id, nombre, descripcion, lugar, fecha, hora_inicio, hora_fin,
	tipo, estado, color, publico, visible, documento, created_at, updated_at`

func scanAgenda(row interface{ Scan(...any) error }) (model.Agenda, error) {
	var a model.Agenda
	err := row.Scan(&a.ID, &a.Nombre, &a.Descripcion, &a.Lugar, &a.Fecha, &a.HoraInicio,
		&a.HoraFin, &a.Tipo, &a.Estado, &a.Color, &a.Publico, &a.Visible, &a.Documento,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (q *Queries) queryAgendas(ctx context.Context, query string, args ...any) ([]model.Agenda, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var agendas []model.Agenda
	for rows.Next() {
		a, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, a)
	}
	return agendas, rows.Err()
}

// GetAgendaByID fetches an agenda entry by primary key.
func (q *Queries) GetAgendaByID(ctx context.Context, id int64) (model.Agenda, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+agendaColumns+` FROM agendas WHERE id = ?`, id)
	return scanAgenda(row)
}

// ListAgendas returns the full agenda collection ordered by date and start time.
func (q *Queries) ListAgendas(ctx context.Context) ([]model.Agenda, error) {
	return q.queryAgendas(ctx,
		`SELECT `+agendaColumns+` FROM agendas ORDER BY fecha, hora_inicio`)
}

// ListAgendasBetween returns agenda entries whose fecha falls in [from, to]
// (inclusive, yyyy-MM-dd strings sort lexicographically).
func (q *Queries) ListAgendasBetween(ctx context.Context, from, to string) ([]model.Agenda, error) {
	return q.queryAgendas(ctx,
		`SELECT `+agendaColumns+` FROM agendas WHERE fecha >= ? AND fecha <= ?
		 ORDER BY fecha, hora_inicio`, from, to)
}

// ListAgendasPublicasBetween returns only public, visible entries for the portal.
func (q *Queries) ListAgendasPublicasBetween(ctx context.Context, from, to string) ([]model.Agenda, error) {
	return q.queryAgendas(ctx,
		`SELECT `+agendaColumns+` FROM agendas
		 WHERE fecha >= ? AND fecha <= ? AND publico = 1 AND visible = 1
		 ORDER BY fecha, hora_inicio`, from, to)
}

// CreateAgendaParams holds fields for CreateAgenda.
type CreateAgendaParams struct {
	Nombre      string
	Descripcion string
	Lugar       string
	Fecha       string
	HoraInicio  string
	HoraFin     string
	Tipo        string
	Estado      string
	Color       string
	Publico     bool
	Visible     bool
	Documento   sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateAgenda inserts an agenda entry and returns the stored record.
func (q *Queries) CreateAgenda(ctx context.Context, arg CreateAgendaParams) (model.Agenda, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO agendas (nombre, descripcion, lugar, fecha, hora_inicio, hora_fin,
			tipo, estado, color, publico, visible, documento, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Nombre, arg.Descripcion, arg.Lugar, arg.Fecha, arg.HoraInicio, arg.HoraFin,
		arg.Tipo, arg.Estado, arg.Color, arg.Publico, arg.Visible, arg.Documento,
		arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Agenda{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Agenda{}, err
	}
	return q.GetAgendaByID(ctx, id)
}

// UpdateAgendaParams holds fields for UpdateAgenda.
type UpdateAgendaParams struct {
	ID          int64
	Nombre      string
	Descripcion string
	Lugar       string
	Fecha       string
	HoraInicio  string
	HoraFin     string
	Tipo        string
	Estado      string
	Color       string
	Publico     bool
	Visible     bool
	Documento   sql.NullString
	UpdatedAt   time.Time
}

// UpdateAgenda replaces all editable fields of an agenda entry.
func (q *Queries) UpdateAgenda(ctx context.Context, arg UpdateAgendaParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE agendas SET nombre = ?, descripcion = ?, lugar = ?, fecha = ?,
			hora_inicio = ?, hora_fin = ?, tipo = ?, estado = ?, color = ?,
			publico = ?, visible = ?, documento = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Nombre, arg.Descripcion, arg.Lugar, arg.Fecha, arg.HoraInicio, arg.HoraFin,
		arg.Tipo, arg.Estado, arg.Color, arg.Publico, arg.Visible, arg.Documento,
		arg.UpdatedAt, arg.ID)
	return err
}

// UpdateAgendaHorarioParams holds fields for UpdateAgendaHorario.
type UpdateAgendaHorarioParams struct {
	ID         int64
	Fecha      string
	HoraInicio string
	HoraFin    string
	Color      string
	UpdatedAt  time.Time
}

// UpdateAgendaHorario persists a drag-move or resize: only the date, times and
// the recomputed color change.
func (q *Queries) UpdateAgendaHorario(ctx context.Context, arg UpdateAgendaHorarioParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE agendas SET fecha = ?, hora_inicio = ?, hora_fin = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Fecha, arg.HoraInicio, arg.HoraFin, arg.Color, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteAgenda removes an agenda entry. Notification records cascade.
func (q *Queries) DeleteAgenda(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM agendas WHERE id = ?`, id)
	return err
}

const notificacionColumns = `id, agenda_id, user_uuid, email, status, attempts,
	last_error, sent_at, created_at`

func scanNotificacion(row interface{ Scan(...any) error }) (model.AgendaNotificacion, error) {
	var n model.AgendaNotificacion
	err := row.Scan(&n.ID, &n.AgendaID, &n.UserUUID, &n.Email, &n.Status, &n.Attempts,
		&n.LastError, &n.SentAt, &n.CreatedAt)
	return n, err
}

func (q *Queries) queryNotificaciones(ctx context.Context, query string, args ...any) ([]model.AgendaNotificacion, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.AgendaNotificacion
	for rows.Next() {
		n, err := scanNotificacion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListNotificacionesByAgenda returns all notification records for an agenda entry.
func (q *Queries) ListNotificacionesByAgenda(ctx context.Context, agendaID int64) ([]model.AgendaNotificacion, error) {
	return q.queryNotificaciones(ctx,
		`SELECT `+notificacionColumns+` FROM agenda_notificaciones
		 WHERE agenda_id = ? ORDER BY created_at`, agendaID)
}

// GetNotificacion fetches the notification record for one user on one agenda
// entry, if any.
func (q *Queries) GetNotificacion(ctx context.Context, agendaID int64, userUUID string) (model.AgendaNotificacion, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+notificacionColumns+` FROM agenda_notificaciones
		 WHERE agenda_id = ? AND user_uuid = ?`, agendaID, userUUID)
	return scanNotificacion(row)
}

// CreateNotificacionParams holds fields for CreateNotificacion.
type CreateNotificacionParams struct {
	AgendaID  int64
	UserUUID  string
	Email     string
	Status    string
	CreatedAt time.Time
}

// CreateNotificacion inserts a notification record.
func (q *Queries) CreateNotificacion(ctx context.Context, arg CreateNotificacionParams) (model.AgendaNotificacion, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO agenda_notificaciones (agenda_id, user_uuid, email, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		arg.AgendaID, arg.UserUUID, arg.Email, arg.Status, arg.CreatedAt)
	if err != nil {
		return model.AgendaNotificacion{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AgendaNotificacion{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+notificacionColumns+` FROM agenda_notificaciones WHERE id = ?`, id)
	return scanNotificacion(row)
}

// MarkNotificacionSent records a successful delivery.
func (q *Queries) MarkNotificacionSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE agenda_notificaciones
		 SET status = ?, sent_at = ?, attempts = attempts + 1, last_error = NULL
		 WHERE id = ?`, model.NotificacionEnviada, sentAt, id)
	return err
}

// MarkNotificacionFailed records a failed delivery attempt.
func (q *Queries) MarkNotificacionFailed(ctx context.Context, id int64, lastError string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE agenda_notificaciones
		 SET status = ?, attempts = attempts + 1, last_error = ?
		 WHERE id = ?`, model.NotificacionFallida, lastError, id)
	return err
}

// ResetNotificacion re-queues a notification for delivery (resend).
func (q *Queries) ResetNotificacion(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE agenda_notificaciones SET status = ?, last_error = NULL WHERE id = ?`,
		model.NotificacionPendiente, id)
	return err
}

// ListPendingNotificaciones returns queued notifications up to limit.
func (q *Queries) ListPendingNotificaciones(ctx context.Context, limit int64) ([]model.AgendaNotificacion, error) {
	return q.queryNotificaciones(ctx,
		`SELECT `+notificacionColumns+` FROM agenda_notificaciones
		 WHERE status = ? ORDER BY created_at LIMIT ?`,
		model.NotificacionPendiente, limit)
}

// DeleteNotificacionesByAgenda removes all notification records of an agenda entry.
func (q *Queries) DeleteNotificacionesByAgenda(ctx context.Context, agendaID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM agenda_notificaciones WHERE agenda_id = ?`, agendaID)
	return err
}
