// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
)

const consejeroColumns = `id, nombres, apellidos, cargo, provincia, biografia, foto,
	email, activo, orden, created_at, updated_at`

func scanConsejero(row interface{ Scan(...any) error }) (model.Consejero, error) {
	var c model.Consejero
	err := row.Scan(&c.ID, &c.Nombres, &c.Apellidos, &c.Cargo, &c.Provincia,
		&c.Biografia, &c.Foto, &c.Email, &c.Activo, &c.Orden, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) queryConsejeros(ctx context.Context, query string, args ...any) ([]model.Consejero, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var consejeros []model.Consejero
	for rows.Next() {
		c, err := scanConsejero(rows)
		if err != nil {
			return nil, err
		}
		consejeros = append(consejeros, c)
	}
	return consejeros, rows.Err()
}

// GetConsejeroByID fetches a council member by primary key.
func (q *Queries) GetConsejeroByID(ctx context.Context, id int64) (model.Consejero, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+consejeroColumns+` FROM consejeros WHERE id = ?`, id)
	return scanConsejero(row)
}

// ListConsejeros returns all council members in display order.
func (q *Queries) ListConsejeros(ctx context.Context) ([]model.Consejero, error) {
	return q.queryConsejeros(ctx,
		`SELECT `+consejeroColumns+` FROM consejeros ORDER BY orden, apellidos, nombres`)
}

// ListConsejerosActivos returns active council members for the portal.
func (q *Queries) ListConsejerosActivos(ctx context.Context) ([]model.Consejero, error) {
	return q.queryConsejeros(ctx,
		`SELECT `+consejeroColumns+` FROM consejeros WHERE activo = 1 ORDER BY orden, apellidos, nombres`)
}

// CreateConsejeroParams holds fields for CreateConsejero.
type CreateConsejeroParams struct {
	Nombres   string
	Apellidos string
	Cargo     string
	Provincia string
	Biografia string
	Foto      sql.NullString
	Email     string
	Activo    bool
	Orden     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateConsejero inserts a council member and returns the stored record.
func (q *Queries) CreateConsejero(ctx context.Context, arg CreateConsejeroParams) (model.Consejero, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO consejeros (nombres, apellidos, cargo, provincia, biografia, foto,
			email, activo, orden, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Nombres, arg.Apellidos, arg.Cargo, arg.Provincia, arg.Biografia, arg.Foto,
		arg.Email, arg.Activo, arg.Orden, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Consejero{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Consejero{}, err
	}
	return q.GetConsejeroByID(ctx, id)
}

// UpdateConsejeroParams holds fields for UpdateConsejero.
type UpdateConsejeroParams struct {
	ID        int64
	Nombres   string
	Apellidos string
	Cargo     string
	Provincia string
	Biografia string
	Email     string
	Activo    bool
	Orden     int64
	UpdatedAt time.Time
}

// UpdateConsejero replaces the editable fields of a council member.
func (q *Queries) UpdateConsejero(ctx context.Context, arg UpdateConsejeroParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE consejeros SET nombres = ?, apellidos = ?, cargo = ?, provincia = ?,
			biografia = ?, email = ?, activo = ?, orden = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Nombres, arg.Apellidos, arg.Cargo, arg.Provincia, arg.Biografia,
		arg.Email, arg.Activo, arg.Orden, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateConsejeroFoto sets the stored photo path of a council member.
func (q *Queries) UpdateConsejeroFoto(ctx context.Context, id int64, foto sql.NullString, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE consejeros SET foto = ?, updated_at = ? WHERE id = ?`, foto, updatedAt, id)
	return err
}

// DeleteConsejero removes a council member.
func (q *Queries) DeleteConsejero(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM consejeros WHERE id = ?`, id)
	return err
}

// --- Comisiones ---------------------------------------------------------------

// GetComisionByID fetches a commission by primary key.
func (q *Queries) GetComisionByID(ctx context.Context, id int64) (model.Comision, error) {
	var c model.Comision
	err := q.db.QueryRowContext(ctx,
		`SELECT id, nombre, descripcion, activo FROM comisiones WHERE id = ?`, id).
		Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Activo)
	return c, err
}

// ListComisiones returns all commissions by name.
func (q *Queries) ListComisiones(ctx context.Context) ([]model.Comision, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, nombre, descripcion, activo FROM comisiones ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comisiones []model.Comision
	for rows.Next() {
		var c model.Comision
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Activo); err != nil {
			return nil, err
		}
		comisiones = append(comisiones, c)
	}
	return comisiones, rows.Err()
}

// CreateComision inserts a commission.
func (q *Queries) CreateComision(ctx context.Context, nombre, descripcion string, activo bool) (model.Comision, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO comisiones (nombre, descripcion, activo) VALUES (?, ?, ?)`,
		nombre, descripcion, activo)
	if err != nil {
		return model.Comision{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comision{}, err
	}
	return model.Comision{ID: id, Nombre: nombre, Descripcion: descripcion, Activo: activo}, nil
}

// UpdateComision replaces the editable fields of a commission.
func (q *Queries) UpdateComision(ctx context.Context, arg model.Comision) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE comisiones SET nombre = ?, descripcion = ?, activo = ? WHERE id = ?`,
		arg.Nombre, arg.Descripcion, arg.Activo, arg.ID)
	return err
}

// DeleteComision removes a commission.
func (q *Queries) DeleteComision(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM comisiones WHERE id = ?`, id)
	return err
}
