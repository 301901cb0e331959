// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/storage"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/util"
)

// ConsejeroService manages council-member profiles and committees.
type ConsejeroService struct {
	queries   *store.Queries
	resolver  *storage.Resolver
	processor *imaging.Processor
}

// NewConsejeroService creates a new ConsejeroService.
func NewConsejeroService(db *sql.DB, resolver *storage.Resolver, processor *imaging.Processor) *ConsejeroService {
	return &ConsejeroService{
		queries:   store.New(db),
		resolver:  resolver,
		processor: processor,
	}
}

// ConsejeroView is a profile with its resolved photo URL.
type ConsejeroView struct {
	model.Consejero
	FotoUrl string `json:"foto"`
}

func (s *ConsejeroService) view(c model.Consejero) ConsejeroView {
	v := ConsejeroView{Consejero: c}
	if c.Foto.Valid {
		v.FotoUrl = s.resolver.FileURL(c.Foto.String)
	}
	return v
}

// ConsejeroPerfil is the portal profile page payload: the member plus their
// latest associated news.
type ConsejeroPerfil struct {
	ConsejeroView
	Noticias []model.Noticia `json:"noticias"`
}

// Get fetches one profile.
func (s *ConsejeroService) Get(ctx context.Context, id int64) (ConsejeroView, error) {
	c, err := s.queries.GetConsejeroByID(ctx, id)
	if err != nil {
		return ConsejeroView{}, err
	}
	return s.view(c), nil
}

// Perfil builds the portal profile page for one member.
func (s *ConsejeroService) Perfil(ctx context.Context, id int64) (ConsejeroPerfil, error) {
	c, err := s.queries.GetConsejeroByID(ctx, id)
	if err != nil {
		return ConsejeroPerfil{}, err
	}
	noticias, err := s.queries.ListNoticiasByConsejero(ctx, id, 6)
	if err != nil {
		return ConsejeroPerfil{}, fmt.Errorf("listing noticias of consejero %d: %w", id, err)
	}
	return ConsejeroPerfil{ConsejeroView: s.view(c), Noticias: noticias}, nil
}

// List returns every profile in display order.
func (s *ConsejeroService) List(ctx context.Context) ([]ConsejeroView, error) {
	consejeros, err := s.queries.ListConsejeros(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ConsejeroView, 0, len(consejeros))
	for _, c := range consejeros {
		views = append(views, s.view(c))
	}
	return views, nil
}

// Galeria returns the active profiles shown on the portal gallery.
func (s *ConsejeroService) Galeria(ctx context.Context) ([]ConsejeroView, error) {
	consejeros, err := s.queries.ListConsejerosActivos(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ConsejeroView, 0, len(consejeros))
	for _, c := range consejeros {
		views = append(views, s.view(c))
	}
	return views, nil
}

// SaveConsejeroInput holds the editable profile fields. ID zero means create.
type SaveConsejeroInput struct {
	ID        int64
	Nombres   string
	Apellidos string
	Cargo     string
	Provincia string
	Biografia string
	Email     string
	Activo    bool
	Orden     int64
}

// Save creates or updates a profile. The photo is managed separately via
// SetFoto.
func (s *ConsejeroService) Save(ctx context.Context, in SaveConsejeroInput) (ConsejeroView, error) {
	if in.Nombres == "" || in.Apellidos == "" {
		return ConsejeroView{}, Invalid("nombres and apellidos are required")
	}
	now := time.Now()

	if in.ID == 0 {
		c, err := s.queries.CreateConsejero(ctx, store.CreateConsejeroParams{
			Nombres:   in.Nombres,
			Apellidos: in.Apellidos,
			Cargo:     in.Cargo,
			Provincia: in.Provincia,
			Biografia: in.Biografia,
			Email:     in.Email,
			Activo:    in.Activo,
			Orden:     in.Orden,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return ConsejeroView{}, fmt.Errorf("creating consejero: %w", err)
		}
		return s.view(c), nil
	}

	err := s.queries.UpdateConsejero(ctx, store.UpdateConsejeroParams{
		ID:        in.ID,
		Nombres:   in.Nombres,
		Apellidos: in.Apellidos,
		Cargo:     in.Cargo,
		Provincia: in.Provincia,
		Biografia: in.Biografia,
		Email:     in.Email,
		Activo:    in.Activo,
		Orden:     in.Orden,
		UpdatedAt: now,
	})
	if err != nil {
		return ConsejeroView{}, fmt.Errorf("updating consejero %d: %w", in.ID, err)
	}
	return s.Get(ctx, in.ID)
}

// SetFoto validates and stores a new portrait for a profile.
func (s *ConsejeroService) SetFoto(ctx context.Context, id int64, size int64, r io.Reader) (ConsejeroView, error) {
	if size > imaging.MaxAvatarSize {
		return ConsejeroView{}, Invalid("foto exceeds the %d byte limit", int64(imaging.MaxAvatarSize))
	}
	if _, err := s.queries.GetConsejeroByID(ctx, id); err != nil {
		return ConsejeroView{}, fmt.Errorf("fetching consejero %d: %w", id, err)
	}

	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxAvatarSize+1))
	if err != nil {
		return ConsejeroView{}, fmt.Errorf("reading foto: %w", err)
	}
	if int64(len(data)) > imaging.MaxAvatarSize {
		return ConsejeroView{}, Invalid("foto exceeds the %d byte limit", int64(imaging.MaxAvatarSize))
	}
	if !imaging.IsImageUpload(data) {
		return ConsejeroView{}, Invalid("foto must be an image file")
	}

	result, err := s.processor.ProcessFoto(bytes.NewReader(data), imaging.MaxAvatarSize, uuid.NewString())
	if err != nil {
		return ConsejeroView{}, Invalid("processing foto: %v", err)
	}

	foto := util.NullStringFromValue(result.RelPath)
	if err := s.queries.UpdateConsejeroFoto(ctx, id, foto, time.Now()); err != nil {
		return ConsejeroView{}, fmt.Errorf("saving foto for consejero %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes a profile; associations cascade.
func (s *ConsejeroService) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteConsejero(ctx, id)
}

// --- Comisiones ---------------------------------------------------------------

// Comisiones returns every committee.
func (s *ConsejeroService) Comisiones(ctx context.Context) ([]model.Comision, error) {
	return s.queries.ListComisiones(ctx)
}

// SaveComision creates or updates a committee.
func (s *ConsejeroService) SaveComision(ctx context.Context, in model.Comision) (model.Comision, error) {
	if in.Nombre == "" {
		return model.Comision{}, Invalid("nombre is required")
	}
	if in.ID == 0 {
		return s.queries.CreateComision(ctx, in.Nombre, in.Descripcion, in.Activo)
	}
	if err := s.queries.UpdateComision(ctx, in); err != nil {
		return model.Comision{}, fmt.Errorf("updating comision %d: %w", in.ID, err)
	}
	return s.queries.GetComisionByID(ctx, in.ID)
}

// DeleteComision removes a committee.
func (s *ConsejeroService) DeleteComision(ctx context.Context, id int64) error {
	return s.queries.DeleteComision(ctx, id)
}
