// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"

	"github.com/alexedwards/scs/v2"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/geoip"
	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/service"
)

// Handler bundles the service layer behind the REST endpoints.
type Handler struct {
	db         *sql.DB
	agendas    *service.AgendaService
	documentos *service.DocumentoService
	noticias   *service.NoticiaService
	consejeros *service.ConsejeroService
	users      *service.UserService
	config     *service.ConfigService
	events     *service.EventService
	processor  *imaging.Processor
	sessions   *scs.SessionManager
	jwt        auth.JWT
	geo        *geoip.Lookup
	logins     *middleware.LoginProtection
}

// Deps carries everything a Handler needs. geo may be nil.
type Deps struct {
	DB         *sql.DB
	Agendas    *service.AgendaService
	Documentos *service.DocumentoService
	Noticias   *service.NoticiaService
	Consejeros *service.ConsejeroService
	Users      *service.UserService
	Config     *service.ConfigService
	Events     *service.EventService
	Processor  *imaging.Processor
	Sessions   *scs.SessionManager
	JWT        auth.JWT
	Geo        *geoip.Lookup
	Logins     *middleware.LoginProtection
}

// NewHandler creates an API handler.
func NewHandler(d Deps) *Handler {
	if d.Geo == nil {
		d.Geo = geoip.NewLookup()
	}
	if d.Logins == nil {
		d.Logins = middleware.NewLoginProtection()
	}
	return &Handler{
		db:         d.DB,
		agendas:    d.Agendas,
		documentos: d.Documentos,
		noticias:   d.Noticias,
		consejeros: d.Consejeros,
		users:      d.Users,
		config:     d.Config,
		events:     d.Events,
		processor:  d.Processor,
		sessions:   d.Sessions,
		jwt:        d.JWT,
		geo:        d.Geo,
		logins:     d.Logins,
	}
}
