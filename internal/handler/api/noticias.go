// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/service"
)

// NoticiaRequest is the request body for creating or updating an article.
// The slug is always derived server-side from the title.
type NoticiaRequest struct {
	Titulo           string   `json:"titulo"`
	Gorro            string   `json:"gorro"`
	Bajada           string   `json:"bajada"`
	Introduccion     string   `json:"introduccion"`
	Contenido        string   `json:"contenido"`
	Conclusion       string   `json:"conclusion"`
	Nota             string   `json:"nota"`
	FechaPublicacion string   `json:"fechaPublicacion"`
	Autor            string   `json:"autor"`
	Activo           bool     `json:"activo"`
	Destacado        bool     `json:"destacado"`
	DestacadoAntigua bool     `json:"destacadoAntigua"`
	Tags             []string `json:"tags"`
	Consejeros       []int64  `json:"consejeros"`
	Comisiones       []int64  `json:"comisiones"`
}

func (req NoticiaRequest) toInput(id int64) service.SaveNoticiaInput {
	return service.SaveNoticiaInput{
		ID:               id,
		Titulo:           req.Titulo,
		Gorro:            req.Gorro,
		Bajada:           req.Bajada,
		Introduccion:     req.Introduccion,
		Contenido:        req.Contenido,
		Conclusion:       req.Conclusion,
		Nota:             req.Nota,
		FechaPublicacion: req.FechaPublicacion,
		Autor:            req.Autor,
		Activo:           req.Activo,
		Destacado:        req.Destacado,
		DestacadoAntigua: req.DestacadoAntigua,
		Tags:             req.Tags,
		Consejeros:       req.Consejeros,
		Comisiones:       req.Comisiones,
	}
}

// ListNoticias handles GET /v1/noticias with 0-based page/size parameters.
func (h *Handler) ListNoticias(w http.ResponseWriter, r *http.Request) {
	page, err := h.noticias.List(r.Context(),
		QueryInt64(r, "page", 0), QueryInt64(r, "size", 10))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// GetNoticia handles GET /v1/noticias/{id}.
func (h *Handler) GetNoticia(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	noticia, err := h.noticias.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, noticia, nil)
}

// CreateNoticia handles POST /v1/noticias.
func (h *Handler) CreateNoticia(w http.ResponseWriter, r *http.Request) {
	var req NoticiaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	userID := middleware.GetUserID(r)
	noticia, err := h.noticias.Save(r.Context(), req.toInput(0), &userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, noticia)
}

// UpdateNoticia handles PUT /v1/noticias/{id}.
func (h *Handler) UpdateNoticia(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req NoticiaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	userID := middleware.GetUserID(r)
	noticia, err := h.noticias.Save(r.Context(), req.toInput(id), &userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, noticia, nil)
}

// DeleteNoticia handles DELETE /v1/noticias/{id}.
func (h *Handler) DeleteNoticia(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	userID := middleware.GetUserID(r)
	if err := h.noticias.Delete(r.Context(), id, &userID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// UploadNoticiaImagen handles POST /v1/noticias/{id}/imagenes (multipart).
// The photo is re-encoded to JPEG and bounded to the maximum dimension; an
// esPrincipal form field marks it as the cover, displacing the previous one.
func (h *Handler) UploadNoticiaImagen(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	if err := r.ParseMultipartForm(imaging.MaxNoticiaImagenSize); err != nil {
		WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	if header.Size > imaging.MaxNoticiaImagenSize {
		WriteBadRequest(w, "image exceeds the 10MB limit")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxNoticiaImagenSize+1))
	if err != nil {
		WriteInternalError(w, "read upload")
		return
	}
	if !imaging.IsImageUpload(data) {
		WriteBadRequest(w, "file is not a supported image")
		return
	}

	result, err := h.processor.ProcessNoticiaImagen(bytes.NewReader(data),
		imaging.MaxNoticiaImagenSize, uuid.NewString())
	if err != nil {
		WriteBadRequest(w, "image could not be processed")
		return
	}

	esPrincipal, _ := strconv.ParseBool(r.FormValue("esPrincipal"))
	imagen, err := h.noticias.AgregarImagen(r.Context(), id, result.RelPath, esPrincipal)
	if err != nil {
		_ = h.processor.Delete(result.RelPath)
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, imagen)
}

// MarcarImagenPrincipal handles PATCH /v1/noticias/imagenes/{id}/principal.
// Exactly one image per article holds the flag afterwards.
func (h *Handler) MarcarImagenPrincipal(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	if err := h.noticias.MarcarPrincipal(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, nil)
}

// DeleteNoticiaImagen handles DELETE /v1/noticias/imagenes/{id}.
func (h *Handler) DeleteNoticiaImagen(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	if err := h.noticias.EliminarImagen(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
