// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/consejoregional/portal-go/internal/cache"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/storage"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/util"
)

// noticiasCachePrefix scopes all cached portal noticia reads so a single
// prefix delete invalidates them on any write.
const noticiasCachePrefix = "noticias:"

// NoticiaService manages news articles, their images and associations.
type NoticiaService struct {
	db        *sql.DB
	queries   *store.Queries
	resolver  *storage.Resolver
	cache     cache.Cache
	sanitizer *bluemonday.Policy
	events    *EventService
}

// NewNoticiaService creates a new NoticiaService. c may be nil to disable
// caching of portal reads.
func NewNoticiaService(db *sql.DB, resolver *storage.Resolver, c cache.Cache) *NoticiaService {
	return &NoticiaService{
		db:        db,
		queries:   store.New(db),
		resolver:  resolver,
		cache:     c,
		sanitizer: bluemonday.UGCPolicy(),
		events:    NewEventService(db),
	}
}

// NoticiaImagenView is an image with its resolved absolute URL.
type NoticiaImagenView struct {
	model.NoticiaImagen
	AbsoluteUrl string `json:"absoluteUrl"`
}

// NoticiaDetalle is an article with its images, tags and associations.
type NoticiaDetalle struct {
	model.Noticia
	Imagenes   []NoticiaImagenView `json:"imagenes"`
	Tags       []string            `json:"tags"`
	Consejeros []int64             `json:"consejeros"`
	Comisiones []int64             `json:"comisiones"`
}

func (s *NoticiaService) detalle(ctx context.Context, n model.Noticia) (NoticiaDetalle, error) {
	imagenes, err := s.queries.ListNoticiaImagenes(ctx, n.ID)
	if err != nil {
		return NoticiaDetalle{}, err
	}
	tags, err := s.queries.ListNoticiaTags(ctx, n.ID)
	if err != nil {
		return NoticiaDetalle{}, err
	}
	consejeros, err := s.queries.ListNoticiaConsejeros(ctx, n.ID)
	if err != nil {
		return NoticiaDetalle{}, err
	}
	comisiones, err := s.queries.ListNoticiaComisiones(ctx, n.ID)
	if err != nil {
		return NoticiaDetalle{}, err
	}

	views := make([]NoticiaImagenView, 0, len(imagenes))
	for _, img := range imagenes {
		views = append(views, NoticiaImagenView{
			NoticiaImagen: img,
			AbsoluteUrl:   s.resolver.FileURL(img.Url),
		})
	}
	return NoticiaDetalle{
		Noticia:    n,
		Imagenes:   views,
		Tags:       tags,
		Consejeros: consejeros,
		Comisiones: comisiones,
	}, nil
}

// Get fetches an article with its images and associations.
func (s *NoticiaService) Get(ctx context.Context, id int64) (NoticiaDetalle, error) {
	n, err := s.queries.GetNoticiaByID(ctx, id)
	if err != nil {
		return NoticiaDetalle{}, err
	}
	return s.detalle(ctx, n)
}

// GetBySlug fetches a published article by slug for the portal, served from
// cache when possible.
func (s *NoticiaService) GetBySlug(ctx context.Context, slug string) (NoticiaDetalle, error) {
	key := noticiasCachePrefix + "slug:" + slug
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var d NoticiaDetalle
			if err := json.Unmarshal(data, &d); err == nil {
				return d, nil
			}
		}
	}

	n, err := s.queries.GetNoticiaBySlug(ctx, slug)
	if err != nil {
		return NoticiaDetalle{}, err
	}
	d, err := s.detalle(ctx, n)
	if err != nil {
		return NoticiaDetalle{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(d); err == nil {
			if err := s.cache.Set(ctx, key, data, 0); err != nil {
				slog.Warn("failed to cache noticia", "error", err, "slug", slug)
			}
		}
	}
	return d, nil
}

// NoticiaPage is one page of the admin article list.
type NoticiaPage struct {
	Content       []model.Noticia `json:"content"`
	Page          int64           `json:"page"`
	Size          int64           `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int64           `json:"totalPages"`
}

// List returns one page of articles, newest publication first. page is 0-based.
func (s *NoticiaService) List(ctx context.Context, page, size int64) (NoticiaPage, error) {
	if size <= 0 {
		size = DefaultFolderPageSize
	}
	if size > MaxFolderPageSize {
		size = MaxFolderPageSize
	}
	if page < 0 {
		page = 0
	}

	noticias, err := s.queries.ListNoticias(ctx, store.ListNoticiasParams{
		Limit:  size,
		Offset: page * size,
	})
	if err != nil {
		return NoticiaPage{}, err
	}
	total, err := s.queries.CountNoticias(ctx)
	if err != nil {
		return NoticiaPage{}, err
	}
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}
	return NoticiaPage{
		Content:       noticias,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// ListPublico pages through published articles only.
func (s *NoticiaService) ListPublico(ctx context.Context, page, size int64) (NoticiaPage, error) {
	if size <= 0 {
		size = DefaultFolderPageSize
	}
	if size > MaxFolderPageSize {
		size = MaxFolderPageSize
	}
	if page < 0 {
		page = 0
	}

	noticias, err := s.queries.ListNoticiasActivas(ctx, store.ListNoticiasParams{
		Limit:  size,
		Offset: page * size,
	})
	if err != nil {
		return NoticiaPage{}, err
	}
	total, err := s.queries.CountNoticiasActivas(ctx)
	if err != nil {
		return NoticiaPage{}, err
	}
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}
	return NoticiaPage{
		Content:       noticias,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// Destacadas returns the featured articles for the portal home page.
func (s *NoticiaService) Destacadas(ctx context.Context, limit int64) ([]model.Noticia, error) {
	if limit <= 0 {
		limit = 4
	}
	return s.queries.ListNoticiasDestacadas(ctx, limit)
}

// Ultimas returns the latest published articles.
func (s *NoticiaService) Ultimas(ctx context.Context, limit int64) ([]model.Noticia, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.queries.ListUltimasNoticias(ctx, limit)
}

// uniqueSlug derives a slug from titulo and suffixes a counter until it is
// unique among other articles.
func (s *NoticiaService) uniqueSlug(ctx context.Context, titulo string, excludeID int64) (string, error) {
	base := util.Slugify(titulo)
	if base == "" {
		return "", Invalid("titulo produces an empty slug")
	}

	slug := base
	for i := 2; ; i++ {
		n, err := s.queries.CountNoticiasBySlug(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// SaveNoticiaInput holds the editable fields of an article. ID zero means
// create. The HTML fields are sanitized before persistence.
type SaveNoticiaInput struct {
	ID               int64
	Titulo           string
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
	Tags             []string
	Consejeros       []int64
	Comisiones       []int64
}

// Save creates or updates an article. Rich-text fields pass through the HTML
// sanitizer; the slug is derived from the title and kept unique.
func (s *NoticiaService) Save(ctx context.Context, in SaveNoticiaInput, userID *int64) (NoticiaDetalle, error) {
	if in.Titulo == "" {
		return NoticiaDetalle{}, Invalid("titulo is required")
	}
	fecha, err := ParseFecha(in.FechaPublicacion)
	if err != nil {
		return NoticiaDetalle{}, err
	}

	slug, err := s.uniqueSlug(ctx, in.Titulo, in.ID)
	if err != nil {
		return NoticiaDetalle{}, err
	}

	clean := func(html string) string { return s.sanitizer.Sanitize(html) }
	now := time.Now()

	var id int64
	if in.ID == 0 {
		n, err := s.queries.CreateNoticia(ctx, store.CreateNoticiaParams{
			Titulo:           in.Titulo,
			Slug:             slug,
			Gorro:            clean(in.Gorro),
			Bajada:           clean(in.Bajada),
			Introduccion:     clean(in.Introduccion),
			Contenido:        clean(in.Contenido),
			Conclusion:       clean(in.Conclusion),
			Nota:             clean(in.Nota),
			FechaPublicacion: fecha,
			Autor:            in.Autor,
			Activo:           in.Activo,
			Destacado:        in.Destacado,
			DestacadoAntigua: in.DestacadoAntigua,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return NoticiaDetalle{}, fmt.Errorf("creating noticia: %w", err)
		}
		id = n.ID
		_ = s.events.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryNoticia,
			"noticia created: "+n.Titulo, userID, map[string]any{"noticia_id": id})
	} else {
		id = in.ID
		err := s.queries.UpdateNoticia(ctx, store.UpdateNoticiaParams{
			ID:               id,
			Titulo:           in.Titulo,
			Slug:             slug,
			Gorro:            clean(in.Gorro),
			Bajada:           clean(in.Bajada),
			Introduccion:     clean(in.Introduccion),
			Contenido:        clean(in.Contenido),
			Conclusion:       clean(in.Conclusion),
			Nota:             clean(in.Nota),
			FechaPublicacion: fecha,
			Autor:            in.Autor,
			Activo:           in.Activo,
			Destacado:        in.Destacado,
			DestacadoAntigua: in.DestacadoAntigua,
			UpdatedAt:        now,
		})
		if err != nil {
			return NoticiaDetalle{}, fmt.Errorf("updating noticia %d: %w", id, err)
		}
	}

	if err := s.queries.ReplaceNoticiaTags(ctx, id, in.Tags); err != nil {
		return NoticiaDetalle{}, fmt.Errorf("replacing tags: %w", err)
	}
	if err := s.queries.ReplaceNoticiaConsejeros(ctx, id, DedupIDs(in.Consejeros)); err != nil {
		return NoticiaDetalle{}, fmt.Errorf("replacing consejeros: %w", err)
	}
	if err := s.queries.ReplaceNoticiaComisiones(ctx, id, DedupIDs(in.Comisiones)); err != nil {
		return NoticiaDetalle{}, fmt.Errorf("replacing comisiones: %w", err)
	}

	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes an article; images and associations cascade.
func (s *NoticiaService) Delete(ctx context.Context, id int64, userID *int64) error {
	n, err := s.queries.GetNoticiaByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteNoticia(ctx, id); err != nil {
		return fmt.Errorf("deleting noticia %d: %w", id, err)
	}
	_ = s.events.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryNoticia,
		"noticia deleted: "+n.Titulo, userID, map[string]any{"noticia_id": id})
	s.invalidate(ctx)
	return nil
}

// AgregarImagen attaches an image to an article. When esPrincipal is set, any
// previous principal image is cleared first.
func (s *NoticiaService) AgregarImagen(ctx context.Context, noticiaID int64, url string, esPrincipal bool) (model.NoticiaImagen, error) {
	if _, err := s.queries.GetNoticiaByID(ctx, noticiaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NoticiaImagen{}, Invalid("unknown noticia %d", noticiaID)
		}
		return model.NoticiaImagen{}, err
	}
	if esPrincipal {
		if err := s.queries.ClearNoticiaImagenPrincipal(ctx, noticiaID); err != nil {
			return model.NoticiaImagen{}, err
		}
	}
	img, err := s.queries.CreateNoticiaImagen(ctx, noticiaID, url, esPrincipal)
	if err != nil {
		return model.NoticiaImagen{}, fmt.Errorf("adding imagen: %w", err)
	}
	s.invalidate(ctx)
	return img, nil
}

// MarcarPrincipal makes one image the article's principal image, clearing the
// flag from all others so at most one image per article carries it.
func (s *NoticiaService) MarcarPrincipal(ctx context.Context, imagenID int64) error {
	img, err := s.queries.GetNoticiaImagenByID(ctx, imagenID)
	if err != nil {
		return fmt.Errorf("fetching imagen %d: %w", imagenID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	if err := qtx.ClearNoticiaImagenPrincipal(ctx, img.NoticiaID); err != nil {
		return err
	}
	if err := qtx.SetNoticiaImagenPrincipal(ctx, imagenID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// EliminarImagen detaches an image from its article.
func (s *NoticiaService) EliminarImagen(ctx context.Context, imagenID int64) error {
	if err := s.queries.DeleteNoticiaImagen(ctx, imagenID); err != nil {
		return fmt.Errorf("deleting imagen %d: %w", imagenID, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *NoticiaService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, noticiasCachePrefix); err != nil {
		slog.Warn("failed to invalidate noticia cache", "error", err)
	}
}
