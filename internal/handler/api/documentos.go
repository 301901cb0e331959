// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/service"
)

// folderQueryFrom builds a folder browse query from URL and query parameters.
func folderQueryFrom(r *http.Request, tipoDocumentoID int64) service.FolderQuery {
	return service.FolderQuery{
		TipoDocumentoID: tipoDocumentoID,
		AnioID:          QueryInt64(r, "anioId", 0),
		Page:            QueryInt64(r, "page", 0),
		Size:            QueryInt64(r, "size", service.DefaultFolderPageSize),
		Search:          r.URL.Query().Get("search"),
		Activo:          QueryBoolPtr(r, "activo"),
	}.Normalize()
}

// BrowseDocumentos handles GET /v1/documentos/tipo/{id}. Pagination is
// 0-based; the response carries totalElements and totalPages alongside the
// page content.
func (h *Handler) BrowseDocumentos(w http.ResponseWriter, r *http.Request) {
	tipoID, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid tipo id")
		return
	}
	page, err := h.documentos.Browse(r.Context(), folderQueryFrom(r, tipoID))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// GetDocumento handles GET /v1/documentos/{id}.
func (h *Handler) GetDocumento(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	doc, err := h.documentos.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, doc, nil)
}

// UploadResponse describes a stored upload, ready to be referenced by a
// subsequent document save.
type UploadResponse struct {
	Url       string `json:"url"`
	Extension string `json:"extension"`
	Tamanio   int64  `json:"tamanio"`
}

// UploadDocumento handles POST /v1/documentos/upload (multipart). The file
// is validated against the extension allow-list and the size ceiling before
// anything is written.
func (h *Handler) UploadDocumento(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxDocumentoSize); err != nil {
		WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	relPath, err := h.documentos.SaveUpload(header.Filename, header.Size, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, UploadResponse{
		Url:       relPath,
		Extension: service.FileExtension(header.Filename),
		Tamanio:   header.Size,
	})
}

// DocumentoRequest is the request body for creating or updating a document.
// The tipoDocumento and anios fields use the same names the record is
// serialized with, so an edit form can PUT back what it loaded.
type DocumentoRequest struct {
	NumeroDocumento string   `json:"numeroDocumento"`
	NombreDocumento string   `json:"nombreDocumento"`
	Descripcion     string   `json:"descripcion"`
	FechaEmision    string   `json:"fechaEmision"`
	Activo          bool     `json:"activo"`
	TipoDocumentoID int64    `json:"tipoDocumento"`
	AnioID          int64    `json:"anios"`
	UrlDocumento    string   `json:"urlDocumento"`
	Extension       string   `json:"extension"`
	Tamanio         int64    `json:"tamanio"`
	Tags            []string `json:"tagsDocumento"`
	Consejeros      []int64  `json:"consejeros"`
	Comisiones      []int64  `json:"comisiones"`
}

func (req DocumentoRequest) toInput(id int64) service.SaveDocumentoInput {
	return service.SaveDocumentoInput{
		ID:              id,
		NumeroDocumento: req.NumeroDocumento,
		NombreDocumento: req.NombreDocumento,
		Descripcion:     req.Descripcion,
		FechaEmision:    req.FechaEmision,
		Activo:          req.Activo,
		TipoDocumentoID: req.TipoDocumentoID,
		AnioID:          req.AnioID,
		UrlDocumento:    req.UrlDocumento,
		Extension:       req.Extension,
		Tamanio:         req.Tamanio,
		Tags:            req.Tags,
		Consejeros:      req.Consejeros,
		Comisiones:      req.Comisiones,
	}
}

// CreateDocumento handles POST /v1/documentos.
func (h *Handler) CreateDocumento(w http.ResponseWriter, r *http.Request) {
	var req DocumentoRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	userID := middleware.GetUserID(r)
	doc, err := h.documentos.Save(r.Context(), req.toInput(0), &userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, doc)
}

// UpdateDocumento handles PUT /v1/documentos/{id}. The stored file reference
// is immutable; only metadata and associations change.
func (h *Handler) UpdateDocumento(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req DocumentoRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	userID := middleware.GetUserID(r)
	doc, err := h.documentos.Save(r.Context(), req.toInput(id), &userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, doc, nil)
}

// ActivoRequest toggles publication of a document.
type ActivoRequest struct {
	Activo bool `json:"activo"`
}

// SetDocumentoActivo handles PATCH /v1/documentos/{id}/activo.
func (h *Handler) SetDocumentoActivo(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req ActivoRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if err := h.documentos.SetActivo(r.Context(), id, req.Activo); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, nil)
}

// ListAnios handles GET /v1/anios.
func (h *Handler) ListAnios(w http.ResponseWriter, r *http.Request) {
	anios, err := h.documentos.Anios(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, anios, nil)
}

// CreateAnio handles POST /v1/anios. Creating an existing year returns the
// existing folder.
func (h *Handler) CreateAnio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Anio int64 `json:"anio"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	anio, err := h.documentos.CreateAnio(r.Context(), req.Anio)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, anio)
}

// ListTiposDocumento handles GET /v1/tipos-documento.
func (h *Handler) ListTiposDocumento(w http.ResponseWriter, r *http.Request) {
	tipos, err := h.documentos.Tipos(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, tipos, nil)
}

// CreateTipoDocumento handles POST /v1/tipos-documento.
func (h *Handler) CreateTipoDocumento(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nombre string `json:"nombre"`
		Codigo string `json:"codigo"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	tipo, err := h.documentos.CreateTipo(r.Context(), req.Nombre, req.Codigo)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, tipo)
}

// GetSincronizacion handles GET /v1/documentos/sincronizacion?codigo=…: the
// association set shared by every document issued under the same code. The
// record is created on first sight of a code.
func (h *Handler) GetSincronizacion(w http.ResponseWriter, r *http.Request) {
	sinc, err := h.documentos.FindOrCreateSincronizacion(r.Context(), r.URL.Query().Get("codigo"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, sinc, nil)
}

// SincronizacionRequest replaces the association sets of an emission code.
type SincronizacionRequest struct {
	CodigoEmision string   `json:"codigoEmision"`
	Tags          []string `json:"tagsDocumento"`
	Consejeros    []int64  `json:"consejeros"`
	Comisiones    []int64  `json:"comisiones"`
}

// SaveSincronizacion handles PUT /v1/documentos/sincronizacion.
func (h *Handler) SaveSincronizacion(w http.ResponseWriter, r *http.Request) {
	var req SincronizacionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	sinc, err := h.documentos.SaveSincronizacion(r.Context(), req.CodigoEmision,
		req.Tags, req.Consejeros, req.Comisiones)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, sinc, nil)
}
