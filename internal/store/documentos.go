// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
)

const documentoColumns = `id, numero_documento, nombre_documento, descripcion,
	fecha_emision, activo, url_documento, tipo_documento_id, anio_id, extension,
	tamanio, created_by, created_at, updated_at`

func scanDocumento(row interface{ Scan(...any) error }) (model.Documento, error) {
	var d model.Documento
	err := row.Scan(&d.ID, &d.NumeroDocumento, &d.NombreDocumento, &d.Descripcion,
		&d.FechaEmision, &d.Activo, &d.UrlDocumento, &d.TipoDocumentoID, &d.AnioID,
		&d.Extension, &d.Tamanio, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// GetDocumentoByID fetches a document by primary key.
func (q *Queries) GetDocumentoByID(ctx context.Context, id int64) (model.Documento, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+documentoColumns+` FROM documentos WHERE id = ?`, id)
	return scanDocumento(row)
}

// ListDocumentosByFolderParams selects one folder page: a (tipo, anio) pair
// with optional normalized search text and an optional activo filter.
// Limit/Offset come from the 0-based folder pagination.
type ListDocumentosByFolderParams struct {
	TipoDocumentoID int64
	AnioID          int64
	Search          string       // already normalized (util.NormalizeSearch)
	Activo          sql.NullBool // invalid = no filter
	Limit           int64
	Offset          int64
}

func folderFilter(arg ListDocumentosByFolderParams) (string, []any) {
	var sb strings.Builder
	sb.WriteString(` WHERE tipo_documento_id = ? AND anio_id = ?`)
	args := []any{arg.TipoDocumentoID, arg.AnioID}

	if arg.Search != "" {
		sb.WriteString(` AND busqueda LIKE ?`)
		args = append(args, "%"+arg.Search+"%")
	}
	if arg.Activo.Valid {
		sb.WriteString(` AND activo = ?`)
		args = append(args, arg.Activo.Bool)
	}
	return sb.String(), args
}

// ListDocumentosByFolder returns one page of a folder's documents ordered by
// emission date, newest first.
func (q *Queries) ListDocumentosByFolder(ctx context.Context, arg ListDocumentosByFolderParams) ([]model.Documento, error) {
	filter, args := folderFilter(arg)
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+documentoColumns+` FROM documentos`+filter+
			` ORDER BY fecha_emision DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []model.Documento
	for rows.Next() {
		d, err := scanDocumento(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CountDocumentosByFolder counts documents matching the folder filter,
// ignoring Limit/Offset.
func (q *Queries) CountDocumentosByFolder(ctx context.Context, arg ListDocumentosByFolderParams) (int64, error) {
	filter, args := folderFilter(arg)
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documentos`+filter, args...).Scan(&n)
	return n, err
}

// CreateDocumentoParams holds fields for CreateDocumento.
type CreateDocumentoParams struct {
	NumeroDocumento string
	NombreDocumento string
	Descripcion     string
	FechaEmision    string
	Activo          bool
	UrlDocumento    string
	TipoDocumentoID int64
	AnioID          int64
	Extension       string
	Tamanio         int64
	Busqueda        string
	CreatedBy       sql.NullInt64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateDocumento inserts a document and returns the stored record.
func (q *Queries) CreateDocumento(ctx context.Context, arg CreateDocumentoParams) (model.Documento, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO documentos (numero_documento, nombre_documento, descripcion,
			fecha_emision, activo, url_documento, tipo_documento_id, anio_id,
			extension, tamanio, busqueda, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.NumeroDocumento, arg.NombreDocumento, arg.Descripcion, arg.FechaEmision,
		arg.Activo, arg.UrlDocumento, arg.TipoDocumentoID, arg.AnioID, arg.Extension,
		arg.Tamanio, arg.Busqueda, arg.CreatedBy, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Documento{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Documento{}, err
	}
	return q.GetDocumentoByID(ctx, id)
}

// UpdateDocumentoParams holds fields for UpdateDocumento.
type UpdateDocumentoParams struct {
	ID              int64
	NumeroDocumento string
	NombreDocumento string
	Descripcion     string
	FechaEmision    string
	Activo          bool
	TipoDocumentoID int64
	AnioID          int64
	Busqueda        string
	UpdatedAt       time.Time
}

// UpdateDocumento updates document metadata. The stored file path never
// changes on edit; re-upload creates a new record.
func (q *Queries) UpdateDocumento(ctx context.Context, arg UpdateDocumentoParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE documentos SET numero_documento = ?, nombre_documento = ?, descripcion = ?,
			fecha_emision = ?, activo = ?, tipo_documento_id = ?, anio_id = ?,
			busqueda = ?, updated_at = ?
		 WHERE id = ?`,
		arg.NumeroDocumento, arg.NombreDocumento, arg.Descripcion, arg.FechaEmision,
		arg.Activo, arg.TipoDocumentoID, arg.AnioID, arg.Busqueda, arg.UpdatedAt, arg.ID)
	return err
}

// SetDocumentoActivo toggles the activo flag; the UI never hard-deletes documents.
func (q *Queries) SetDocumentoActivo(ctx context.Context, id int64, activo bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE documentos SET activo = ?, updated_at = ? WHERE id = ?`, activo, updatedAt, id)
	return err
}

// --- Tag and association sets -------------------------------------------------

// ListDocumentoTags returns a document's tags sorted alphabetically.
func (q *Queries) ListDocumentoTags(ctx context.Context, documentoID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT tag FROM documento_tags WHERE documento_id = ? ORDER BY tag`, documentoID)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

// ReplaceDocumentoTags replaces a document's tag set.
func (q *Queries) ReplaceDocumentoTags(ctx context.Context, documentoID int64, tags []string) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM documento_tags WHERE documento_id = ?`, documentoID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO documento_tags (documento_id, tag) VALUES (?, ?)`,
			documentoID, tag); err != nil {
			return err
		}
	}
	return nil
}

// ListDocumentoConsejeros returns the associated consejero ids.
func (q *Queries) ListDocumentoConsejeros(ctx context.Context, documentoID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT consejero_id FROM documento_consejeros WHERE documento_id = ? ORDER BY consejero_id`,
		documentoID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ReplaceDocumentoConsejeros replaces a document's consejero associations.
func (q *Queries) ReplaceDocumentoConsejeros(ctx context.Context, documentoID int64, ids []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM documento_consejeros WHERE documento_id = ?`, documentoID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO documento_consejeros (documento_id, consejero_id) VALUES (?, ?)`,
			documentoID, id); err != nil {
			return err
		}
	}
	return nil
}

// ListDocumentoComisiones returns the associated comision ids.
func (q *Queries) ListDocumentoComisiones(ctx context.Context, documentoID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT comision_id FROM documento_comisiones WHERE documento_id = ? ORDER BY comision_id`,
		documentoID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ReplaceDocumentoComisiones replaces a document's comision associations.
func (q *Queries) ReplaceDocumentoComisiones(ctx context.Context, documentoID int64, ids []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM documento_comisiones WHERE documento_id = ?`, documentoID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO documento_comisiones (documento_id, comision_id) VALUES (?, ?)`,
			documentoID, id); err != nil {
			return err
		}
	}
	return nil
}

// --- Years and folders --------------------------------------------------------

// ListAnios returns year buckets, most recent first.
func (q *Queries) ListAnios(ctx context.Context) ([]model.Anio, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, anio FROM anios ORDER BY anio DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var anios []model.Anio
	for rows.Next() {
		var a model.Anio
		if err := rows.Scan(&a.ID, &a.Anio); err != nil {
			return nil, err
		}
		anios = append(anios, a)
	}
	return anios, rows.Err()
}

// GetAnioByID fetches a year bucket.
func (q *Queries) GetAnioByID(ctx context.Context, id int64) (model.Anio, error) {
	var a model.Anio
	err := q.db.QueryRowContext(ctx, `SELECT id, anio FROM anios WHERE id = ?`, id).
		Scan(&a.ID, &a.Anio)
	return a, err
}

// GetAnioByValue fetches a document year by its calendar value.
func (q *Queries) GetAnioByValue(ctx context.Context, anio int64) (model.Anio, error) {
	var a model.Anio
	err := q.db.QueryRowContext(ctx, `SELECT id, anio FROM anios WHERE anio = ?`, anio).
		Scan(&a.ID, &a.Anio)
	return a, err
}

// CreateAnio inserts a year bucket.
func (q *Queries) CreateAnio(ctx context.Context, anio int64) (model.Anio, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO anios (anio) VALUES (?)`, anio)
	if err != nil {
		return model.Anio{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Anio{}, err
	}
	return model.Anio{ID: id, Anio: anio}, nil
}

// ListTiposDocumento returns all document-type folders ordered by name.
func (q *Queries) ListTiposDocumento(ctx context.Context) ([]model.TipoDocumento, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, nombre, codigo FROM tipos_documento ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tipos []model.TipoDocumento
	for rows.Next() {
		var t model.TipoDocumento
		if err := rows.Scan(&t.ID, &t.Nombre, &t.Codigo); err != nil {
			return nil, err
		}
		tipos = append(tipos, t)
	}
	return tipos, rows.Err()
}

// GetTipoDocumentoByID fetches a document-type folder.
func (q *Queries) GetTipoDocumentoByID(ctx context.Context, id int64) (model.TipoDocumento, error) {
	var t model.TipoDocumento
	err := q.db.QueryRowContext(ctx,
		`SELECT id, nombre, codigo FROM tipos_documento WHERE id = ?`, id).
		Scan(&t.ID, &t.Nombre, &t.Codigo)
	return t, err
}

// CreateTipoDocumento inserts a document-type folder.
func (q *Queries) CreateTipoDocumento(ctx context.Context, nombre, codigo string) (model.TipoDocumento, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO tipos_documento (nombre, codigo) VALUES (?, ?)`, nombre, codigo)
	if err != nil {
		return model.TipoDocumento{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TipoDocumento{}, err
	}
	return model.TipoDocumento{ID: id, Nombre: nombre, Codigo: codigo}, nil
}

// --- SGD synchronization records ---------------------------------------------

// GetSincronizacionByCodigo looks up a synchronization record by its external
// emission code.
func (q *Queries) GetSincronizacionByCodigo(ctx context.Context, codigo string) (model.DocumentoSincronizacion, error) {
	var s model.DocumentoSincronizacion
	err := q.db.QueryRowContext(ctx,
		`SELECT id, codigo_emision, created_at, updated_at
		 FROM documento_sincronizaciones WHERE codigo_emision = ?`, codigo).
		Scan(&s.ID, &s.CodigoEmision, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSincronizacion inserts a synchronization record for an emission code.
func (q *Queries) CreateSincronizacion(ctx context.Context, codigo string, now time.Time) (model.DocumentoSincronizacion, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO documento_sincronizaciones (codigo_emision, created_at, updated_at)
		 VALUES (?, ?, ?)`, codigo, now, now)
	if err != nil {
		return model.DocumentoSincronizacion{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.DocumentoSincronizacion{}, err
	}
	return model.DocumentoSincronizacion{ID: id, CodigoEmision: codigo, CreatedAt: now, UpdatedAt: now}, nil
}

// TouchSincronizacion stamps a synchronization record as updated.
func (q *Queries) TouchSincronizacion(ctx context.Context, id int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE documento_sincronizaciones SET updated_at = ? WHERE id = ?`, now, id)
	return err
}

// ListSincronizacionTags returns a synchronization record's tags.
func (q *Queries) ListSincronizacionTags(ctx context.Context, sincID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT tag FROM sincronizacion_tags WHERE sincronizacion_id = ? ORDER BY tag`, sincID)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

// ReplaceSincronizacionTags replaces a synchronization record's tag set.
func (q *Queries) ReplaceSincronizacionTags(ctx context.Context, sincID int64, tags []string) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM sincronizacion_tags WHERE sincronizacion_id = ?`, sincID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO sincronizacion_tags (sincronizacion_id, tag) VALUES (?, ?)`,
			sincID, tag); err != nil {
			return err
		}
	}
	return nil
}

// ListSincronizacionConsejeros returns the associated consejero ids.
func (q *Queries) ListSincronizacionConsejeros(ctx context.Context, sincID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT consejero_id FROM sincronizacion_consejeros WHERE sincronizacion_id = ? ORDER BY consejero_id`,
		sincID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ReplaceSincronizacionConsejeros replaces the consejero associations.
func (q *Queries) ReplaceSincronizacionConsejeros(ctx context.Context, sincID int64, ids []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM sincronizacion_consejeros WHERE sincronizacion_id = ?`, sincID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO sincronizacion_consejeros (sincronizacion_id, consejero_id) VALUES (?, ?)`,
			sincID, id); err != nil {
			return err
		}
	}
	return nil
}

// ListSincronizacionComisiones returns the associated comision ids.
func (q *Queries) ListSincronizacionComisiones(ctx context.Context, sincID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT comision_id FROM sincronizacion_comisiones WHERE sincronizacion_id = ? ORDER BY comision_id`,
		sincID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ReplaceSincronizacionComisiones replaces the comision associations.
func (q *Queries) ReplaceSincronizacionComisiones(ctx context.Context, sincID int64, ids []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM sincronizacion_comisiones WHERE sincronizacion_id = ?`, sincID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO sincronizacion_comisiones (sincronizacion_id, comision_id) VALUES (?, ?)`,
			sincID, id); err != nil {
			return err
		}
	}
	return nil
}
