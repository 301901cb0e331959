// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/consejoregional/portal-go/internal/middleware"
)

// RouterConfig carries the cross-cutting knobs for BuildRouter.
type RouterConfig struct {
	IsDev          bool
	CSRFKey        []byte
	TrustedOrigins []string
	UploadsDir     string
}

// BuildRouter assembles the HTTP surface: health probes, the public
// principal API, uploaded file serving and the authenticated /v1 admin API.
func (h *Handler) BuildRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDev)))
	r.Use(h.sessions.LoadAndSave)

	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/archivos/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Handle("/archivos/*", fs)
	}

	// Public portal API.
	r.Route("/public/principal", func(r chi.Router) {
		r.Use(middleware.RateLimit(10, 30))

		r.Get("/noticias", h.PrincipalNoticias)
		r.Get("/noticias/destacadas", h.PrincipalNoticiasDestacadas)
		r.Get("/noticias/ultimas", h.PrincipalNoticiasUltimas)
		r.Get("/noticia/{id}", h.PrincipalNoticia)
		r.Get("/{id}/galeria-consejeros/ultimos", h.PrincipalGaleria)
		r.Get("/consejero/{id}", h.PrincipalConsejero)
		r.Get("/agendas/mes/{mes}", h.PrincipalAgendasMes)
		r.Get("/documentos/tipo/{id}", h.PrincipalDocumentos)
		r.Get("/anios", h.PrincipalAnios)
		r.Get("/tipos-documento", h.PrincipalTipos)
		r.Get("/config/{key}", h.PrincipalConfig)
	})

	csrfProtect := middleware.CSRF(cfg.CSRFKey, cfg.TrustedOrigins)

	r.Group(func(r chi.Router) {
		r.Use(csrfProtect)

		r.With(h.logins.Middleware()).Post("/v1/auth/login", h.Login)

		// Admin API. Everything below requires an authenticated session or
		// bearer token.
		r.Route("/v1", func(r chi.Router) {
			r.Use(middleware.Auth(h.sessions, h.jwt, h.db))

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)

			r.Route("/agendas", func(r chi.Router) {
				r.Get("/", h.ListAgendas)
				r.Post("/", h.CreateAgenda)
				r.Get("/mes/{mes}", h.AgendasMes)
				r.Get("/{id}", h.GetAgenda)
				r.Put("/{id}", h.UpdateAgenda)
				r.Patch("/{id}/horario", h.MoverAgenda)
				r.Delete("/{id}", h.DeleteAgenda)
				r.Get("/{id}/notificaciones", h.ListNotificaciones)
				r.Post("/notificar", h.Notificar)
				r.Post("/{id}/reenviar", h.ReenviarNotificacion)
			})

			r.Route("/noticias", func(r chi.Router) {
				r.Get("/", h.ListNoticias)
				r.Post("/", h.CreateNoticia)
				r.Get("/{id}", h.GetNoticia)
				r.Put("/{id}", h.UpdateNoticia)
				r.Delete("/{id}", h.DeleteNoticia)
				r.Post("/{id}/imagenes", h.UploadNoticiaImagen)
				r.Patch("/imagenes/{id}/principal", h.MarcarImagenPrincipal)
				r.Delete("/imagenes/{id}", h.DeleteNoticiaImagen)
			})

			r.Route("/documentos", func(r chi.Router) {
				r.Post("/", h.CreateDocumento)
				r.Post("/upload", h.UploadDocumento)
				r.Get("/tipo/{id}", h.BrowseDocumentos)
				r.Get("/sincronizacion", h.GetSincronizacion)
				r.Put("/sincronizacion", h.SaveSincronizacion)
				r.Get("/{id}", h.GetDocumento)
				r.Put("/{id}", h.UpdateDocumento)
				r.Patch("/{id}/activo", h.SetDocumentoActivo)
			})

			r.Get("/anios", h.ListAnios)
			r.Post("/anios", h.CreateAnio)
			r.Get("/tipos-documento", h.ListTiposDocumento)
			r.Post("/tipos-documento", h.CreateTipoDocumento)

			r.Route("/consejeros", func(r chi.Router) {
				r.Get("/", h.ListConsejeros)
				r.Post("/", h.CreateConsejero)
				r.Get("/{id}", h.GetConsejero)
				r.Put("/{id}", h.UpdateConsejero)
				r.Post("/{id}/foto", h.SetConsejeroFoto)
				r.Delete("/{id}", h.DeleteConsejero)
			})

			r.Route("/comisiones", func(r chi.Router) {
				r.Get("/", h.ListComisiones)
				r.Post("/", h.CreateComision)
				r.Put("/{id}", h.UpdateComision)
				r.Delete("/{id}", h.DeleteComision)
			})

			// User management and the audit log are admin-only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				r.Route("/usuarios", func(r chi.Router) {
					r.Get("/", h.ListUsers)
					r.Post("/", h.CreateUser)
					r.Get("/{id}", h.GetUser)
					r.Put("/{id}", h.UpdateUser)
					r.Patch("/{id}/enabled", h.SetUserEnabled)
					r.Post("/{id}/reset-password", h.ResetPassword)
					r.Post("/{id}/avatar", h.UpdateAvatar)
					r.Delete("/{id}", h.DeleteUser)
				})

				r.Get("/config", h.ListConfig)
				r.Put("/config/{key}", h.SetConfig)
				r.Get("/eventos", h.ListEvents)
			})
		})
	})

	return r
}
