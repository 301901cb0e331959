// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
)

const noticiaColumns = `id, titulo, slug, gorro, bajada, introduccion, contenido,
	conclusion, nota, fecha_publicacion, autor, activo, destacado, destacado_antigua,
	created_at, updated_at`

func scanNoticia(row interface{ Scan(...any) error }) (model.Noticia, error) {
	var n model.Noticia
	err := row.Scan(&n.ID, &n.Titulo, &n.Slug, &n.Gorro, &n.Bajada, &n.Introduccion,
		&n.Contenido, &n.Conclusion, &n.Nota, &n.FechaPublicacion, &n.Autor, &n.Activo,
		&n.Destacado, &n.DestacadoAntigua, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (q *Queries) queryNoticias(ctx context.Context, query string, args ...any) ([]model.Noticia, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var noticias []model.Noticia
	for rows.Next() {
		n, err := scanNoticia(rows)
		if err != nil {
			return nil, err
		}
		noticias = append(noticias, n)
	}
	return noticias, rows.Err()
}

// GetNoticiaByID fetches a news article by primary key.
func (q *Queries) GetNoticiaByID(ctx context.Context, id int64) (model.Noticia, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+noticiaColumns+` FROM noticias WHERE id = ?`, id)
	return scanNoticia(row)
}

// GetNoticiaBySlug fetches an active news article by its slug.
func (q *Queries) GetNoticiaBySlug(ctx context.Context, slug string) (model.Noticia, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+noticiaColumns+` FROM noticias WHERE slug = ? AND activo = 1`, slug)
	return scanNoticia(row)
}

// ListNoticiasParams holds pagination for ListNoticias.
type ListNoticiasParams struct {
	Limit  int64
	Offset int64
}

// ListNoticias returns news articles, newest publication first.
func (q *Queries) ListNoticias(ctx context.Context, arg ListNoticiasParams) ([]model.Noticia, error) {
	return q.queryNoticias(ctx,
		`SELECT `+noticiaColumns+` FROM noticias
		 ORDER BY fecha_publicacion DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
}

// CountNoticias returns the total number of news articles.
func (q *Queries) CountNoticias(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM noticias`).Scan(&n)
	return n, err
}

// ListNoticiasActivas returns published articles only, newest first.
func (q *Queries) ListNoticiasActivas(ctx context.Context, arg ListNoticiasParams) ([]model.Noticia, error) {
	return q.queryNoticias(ctx,
		`SELECT `+noticiaColumns+` FROM noticias WHERE activo = 1
		 ORDER BY fecha_publicacion DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
}

// CountNoticiasActivas returns the number of published articles.
func (q *Queries) CountNoticiasActivas(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM noticias WHERE activo = 1`).Scan(&n)
	return n, err
}

// ListNoticiasDestacadas returns active featured articles for the portal.
func (q *Queries) ListNoticiasDestacadas(ctx context.Context, limit int64) ([]model.Noticia, error) {
	return q.queryNoticias(ctx,
		`SELECT `+noticiaColumns+` FROM noticias
		 WHERE activo = 1 AND destacado = 1
		 ORDER BY fecha_publicacion DESC, id DESC LIMIT ?`, limit)
}

// ListUltimasNoticias returns the latest active articles for the portal.
func (q *Queries) ListUltimasNoticias(ctx context.Context, limit int64) ([]model.Noticia, error) {
	return q.queryNoticias(ctx,
		`SELECT `+noticiaColumns+` FROM noticias
		 WHERE activo = 1
		 ORDER BY fecha_publicacion DESC, id DESC LIMIT ?`, limit)
}

// ListNoticiasByConsejero returns the latest active articles associated with
// a council member, for the profile page.
func (q *Queries) ListNoticiasByConsejero(ctx context.Context, consejeroID, limit int64) ([]model.Noticia, error) {
	return q.queryNoticias(ctx,
		`SELECT `+noticiaColumns+` FROM noticias n
		 JOIN noticia_consejeros nc ON nc.noticia_id = n.id
		 WHERE nc.consejero_id = ? AND n.activo = 1
		 ORDER BY n.fecha_publicacion DESC, n.id DESC LIMIT ?`, consejeroID, limit)
}

// CountNoticiasBySlug returns how many articles already use a slug, excluding one id.
func (q *Queries) CountNoticiasBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM noticias WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// CreateNoticiaParams holds fields for CreateNoticia.
type CreateNoticiaParams struct {
	Titulo           string
	Slug             string
	Gorro            string
	Bajada           string
	Introduccion     string
	Contenido        string
	Conclusion       string
	Nota             string
	FechaPublicacion string
	Autor            string
	Activo           bool
	Destacado        bool
	DestacadoAntigua bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreateNoticia inserts a news article and returns the stored record.
func (q *Queries) CreateNoticia(ctx context.Context, arg CreateNoticiaParams) (model.Noticia, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO noticias (titulo, slug, gorro, bajada, introduccion, contenido,
			conclusion, nota, fecha_publicacion, autor, activo, destacado,
			destacado_antigua, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Titulo, arg.Slug, arg.Gorro, arg.Bajada, arg.Introduccion, arg.Contenido,
		arg.Conclusion, arg.Nota, arg.FechaPublicacion, arg.Autor, arg.Activo,
		arg.Destacado, arg.DestacadoAntigua, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Noticia{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Noticia{}, err
	}
	return q.GetNoticiaByID(ctx, id)
}

// UpdateNoticiaParams holds fields for UpdateNoticia.
type UpdateNoticiaParams struct {
	ID               int64
	Titulo           string
	Slug             string
	Gorro            string
	Bajada           string
	Introduccion     string
	Contenido        string
	Conclusion       string
	Nota             string
	FechaPublicacion string
	Autor            string
	Activo           bool
	Destacado        bool
	DestacadoAntigua bool
	UpdatedAt        time.Time
}

// UpdateNoticia replaces all editable fields of a news article.
func (q *Queries) UpdateNoticia(ctx context.Context, arg UpdateNoticiaParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE noticias SET titulo = ?, slug = ?, gorro = ?, bajada = ?, introduccion = ?,
			contenido = ?, conclusion = ?, nota = ?, fecha_publicacion = ?, autor = ?,
			activo = ?, destacado = ?, destacado_antigua = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Titulo, arg.Slug, arg.Gorro, arg.Bajada, arg.Introduccion, arg.Contenido,
		arg.Conclusion, arg.Nota, arg.FechaPublicacion, arg.Autor, arg.Activo,
		arg.Destacado, arg.DestacadoAntigua, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteNoticia removes a news article; images and associations cascade.
func (q *Queries) DeleteNoticia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM noticias WHERE id = ?`, id)
	return err
}

// --- Images -------------------------------------------------------------------

// ListNoticiaImagenes returns an article's images, principal first.
func (q *Queries) ListNoticiaImagenes(ctx context.Context, noticiaID int64) ([]model.NoticiaImagen, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, noticia_id, url, es_principal FROM noticia_imagenes
		 WHERE noticia_id = ? ORDER BY es_principal DESC, id`, noticiaID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var imgs []model.NoticiaImagen
	for rows.Next() {
		var img model.NoticiaImagen
		if err := rows.Scan(&img.ID, &img.NoticiaID, &img.Url, &img.EsPrincipal); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// GetNoticiaImagenByID fetches one image.
func (q *Queries) GetNoticiaImagenByID(ctx context.Context, id int64) (model.NoticiaImagen, error) {
	var img model.NoticiaImagen
	err := q.db.QueryRowContext(ctx,
		`SELECT id, noticia_id, url, es_principal FROM noticia_imagenes WHERE id = ?`, id).
		Scan(&img.ID, &img.NoticiaID, &img.Url, &img.EsPrincipal)
	return img, err
}

// CreateNoticiaImagen inserts an image for an article.
func (q *Queries) CreateNoticiaImagen(ctx context.Context, noticiaID int64, url string, esPrincipal bool) (model.NoticiaImagen, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO noticia_imagenes (noticia_id, url, es_principal) VALUES (?, ?, ?)`,
		noticiaID, url, esPrincipal)
	if err != nil {
		return model.NoticiaImagen{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.NoticiaImagen{}, err
	}
	return model.NoticiaImagen{ID: id, NoticiaID: noticiaID, Url: url, EsPrincipal: esPrincipal}, nil
}

// ClearNoticiaImagenPrincipal unsets the principal flag on every image of an article.
func (q *Queries) ClearNoticiaImagenPrincipal(ctx context.Context, noticiaID int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE noticia_imagenes SET es_principal = 0 WHERE noticia_id = ?`, noticiaID)
	return err
}

// SetNoticiaImagenPrincipal sets the principal flag on one image.
func (q *Queries) SetNoticiaImagenPrincipal(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE noticia_imagenes SET es_principal = 1 WHERE id = ?`, id)
	return err
}

// DeleteNoticiaImagen removes an image.
func (q *Queries) DeleteNoticiaImagen(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM noticia_imagenes WHERE id = ?`, id)
	return err
}

// --- Tags and associations ----------------------------------------------------

// ListNoticiaTags returns an article's tags.
func (q *Queries) ListNoticiaTags(ctx context.Context, noticiaID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT tag FROM noticia_tags WHERE noticia_id = ? ORDER BY tag`, noticiaID)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

// ReplaceNoticiaTags replaces an article's tag set.
func (q *Queries) ReplaceNoticiaTags(ctx context.Context, noticiaID int64, tags []string) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM noticia_tags WHERE noticia_id = ?`, noticiaID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO noticia_tags (noticia_id, tag) VALUES (?, ?)`,
			noticiaID, tag); err != nil {
			return err
		}
	}
	return nil
}

// ListNoticiaConsejeros returns the associated consejero ids.
func (q *Queries) ListNoticiaConsejeros(ctx context.Context, noticiaID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT consejero_id FROM noticia_consejeros WHERE noticia_id = ? ORDER BY consejero_id`,
		noticiaID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ReplaceNoticiaConsejeros replaces an article's consejero associations.
func (q *Queries) ReplaceNoticiaConsejeros(ctx context.Context, noticiaID int64, ids []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM noticia_consejeros WHERE noticia_id = ?`, noticiaID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO noticia_consejeros (noticia_id, consejero_id) VALUES (?, ?)`,
			noticiaID, id); err != nil {
			return err
		}
	}
	return nil
}

// ListNoticiaComisiones returns the associated comision ids.
func (q *Queries) ListNoticiaComisiones(ctx context.Context, noticiaID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT comision_id FROM noticia_comisiones WHERE noticia_id = ? ORDER BY comision_id`,
		noticiaID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ReplaceNoticiaComisiones replaces an article's comision associations.
func (q *Queries) ReplaceNoticiaComisiones(ctx context.Context, noticiaID int64, ids []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM noticia_comisiones WHERE noticia_id = ?`, noticiaID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO noticia_comisiones (noticia_id, comision_id) VALUES (?, ?)`,
			noticiaID, id); err != nil {
			return err
		}
	}
	return nil
}
