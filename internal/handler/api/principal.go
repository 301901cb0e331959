// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/consejoregional/portal-go/internal/service"
)

// The principal endpoints serve the public portal without authentication.
// They only ever expose published content.

// PrincipalNoticias handles GET /public/principal/noticias.
func (h *Handler) PrincipalNoticias(w http.ResponseWriter, r *http.Request) {
	page, err := h.noticias.ListPublico(r.Context(),
		QueryInt64(r, "page", 0), QueryInt64(r, "size", 10))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// PrincipalNoticiasDestacadas handles GET /public/principal/noticias/destacadas.
func (h *Handler) PrincipalNoticiasDestacadas(w http.ResponseWriter, r *http.Request) {
	noticias, err := h.noticias.Destacadas(r.Context(), QueryInt64(r, "limit", 0))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, noticias, nil)
}

// PrincipalNoticiasUltimas handles GET /public/principal/noticias/ultimas.
func (h *Handler) PrincipalNoticiasUltimas(w http.ResponseWriter, r *http.Request) {
	noticias, err := h.noticias.Ultimas(r.Context(), QueryInt64(r, "limit", 0))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, noticias, nil)
}

// PrincipalNoticia handles GET /public/principal/noticia/{id}. The parameter
// is the article slug; a numeric value is accepted as an id for legacy links.
func (h *Handler) PrincipalNoticia(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")
	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		noticia, err := h.noticias.Get(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if !noticia.Activo {
			WriteNotFound(w, "record not found")
			return
		}
		WriteSuccess(w, noticia, nil)
		return
	}

	noticia, err := h.noticias.GetBySlug(r.Context(), param)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, noticia, nil)
}

// PrincipalConsejero handles GET /public/principal/consejero/{id}: the profile
// page, with the member's latest published articles.
func (h *Handler) PrincipalConsejero(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	perfil, err := h.consejeros.Perfil(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, perfil, nil)
}

// PrincipalGaleria handles GET /public/principal/{id}/galeria-consejeros/ultimos:
// the active members in display order. The site id segment is accepted for
// compatibility with the portal frontend but not interpreted; the gallery is
// site-wide.
func (h *Handler) PrincipalGaleria(w http.ResponseWriter, r *http.Request) {
	galeria, err := h.consejeros.Galeria(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, galeria, nil)
}

// PrincipalAgendasMes handles GET /public/principal/agendas/mes/{mes}: the
// public calendar, restricted to public and visible entries.
func (h *Handler) PrincipalAgendasMes(w http.ResponseWriter, r *http.Request) {
	agendas, err := h.agendas.ListMesPublico(r.Context(), chi.URLParam(r, "mes"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	filtros := service.FiltrosFrom(queryList(r, "tipos"), queryList(r, "estados"))
	WriteSuccess(w, service.ProyectarEventos(agendas, filtros), nil)
}

// PrincipalDocumentos handles GET /public/principal/documentos/tipo/{id}. Only
// active documents are visible regardless of the query.
func (h *Handler) PrincipalDocumentos(w http.ResponseWriter, r *http.Request) {
	tipoID, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid tipo id")
		return
	}
	fq := folderQueryFrom(r, tipoID)
	activo := true
	fq.Activo = &activo

	page, err := h.documentos.Browse(r.Context(), fq)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// PrincipalAnios handles GET /public/principal/anios.
func (h *Handler) PrincipalAnios(w http.ResponseWriter, r *http.Request) {
	h.ListAnios(w, r)
}

// PrincipalTipos handles GET /public/principal/tipos-documento.
func (h *Handler) PrincipalTipos(w http.ResponseWriter, r *http.Request) {
	h.ListTiposDocumento(w, r)
}

// PrincipalConfig handles GET /public/principal/config/{key}. Markdown-typed
// values come back rendered as HTML.
func (h *Handler) PrincipalConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	rendered, err := h.config.GetRendered(r.Context(), key)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"key": key, "value": rendered}, nil)
}
