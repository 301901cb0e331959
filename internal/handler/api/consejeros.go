// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/service"
)

// ConsejeroRequest is the request body for creating or updating a council
// member profile. The photo is uploaded separately.
type ConsejeroRequest struct {
	Nombres   string `json:"nombres"`
	Apellidos string `json:"apellidos"`
	Cargo     string `json:"cargo"`
	Provincia string `json:"provincia"`
	Biografia string `json:"biografia"`
	Email     string `json:"email"`
	Activo    bool   `json:"activo"`
	Orden     int64  `json:"orden"`
}

func (req ConsejeroRequest) toInput(id int64) service.SaveConsejeroInput {
	return service.SaveConsejeroInput{
		ID:        id,
		Nombres:   req.Nombres,
		Apellidos: req.Apellidos,
		Cargo:     req.Cargo,
		Provincia: req.Provincia,
		Biografia: req.Biografia,
		Email:     req.Email,
		Activo:    req.Activo,
		Orden:     req.Orden,
	}
}

// ListConsejeros handles GET /v1/consejeros.
func (h *Handler) ListConsejeros(w http.ResponseWriter, r *http.Request) {
	consejeros, err := h.consejeros.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, consejeros, nil)
}

// GetConsejero handles GET /v1/consejeros/{id}.
func (h *Handler) GetConsejero(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	consejero, err := h.consejeros.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, consejero, nil)
}

// CreateConsejero handles POST /v1/consejeros.
func (h *Handler) CreateConsejero(w http.ResponseWriter, r *http.Request) {
	var req ConsejeroRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	consejero, err := h.consejeros.Save(r.Context(), req.toInput(0))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, consejero)
}

// UpdateConsejero handles PUT /v1/consejeros/{id}.
func (h *Handler) UpdateConsejero(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req ConsejeroRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	consejero, err := h.consejeros.Save(r.Context(), req.toInput(id))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, consejero, nil)
}

// SetConsejeroFoto handles POST /v1/consejeros/{id}/foto (multipart).
func (h *Handler) SetConsejeroFoto(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	if err := r.ParseMultipartForm(imaging.MaxAvatarSize); err != nil {
		WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	consejero, err := h.consejeros.SetFoto(r.Context(), id, header.Size, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, consejero, nil)
}

// DeleteConsejero handles DELETE /v1/consejeros/{id}.
func (h *Handler) DeleteConsejero(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	if err := h.consejeros.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ListComisiones handles GET /v1/comisiones.
func (h *Handler) ListComisiones(w http.ResponseWriter, r *http.Request) {
	comisiones, err := h.consejeros.Comisiones(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, comisiones, nil)
}

// ComisionRequest is the request body for creating or updating a commission.
type ComisionRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"activo"`
}

// CreateComision handles POST /v1/comisiones.
func (h *Handler) CreateComision(w http.ResponseWriter, r *http.Request) {
	var req ComisionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	comision, err := h.consejeros.SaveComision(r.Context(), model.Comision{
		Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: req.Activo,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, comision)
}

// UpdateComision handles PUT /v1/comisiones/{id}.
func (h *Handler) UpdateComision(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req ComisionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	comision, err := h.consejeros.SaveComision(r.Context(), model.Comision{
		ID: id, Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: req.Activo,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, comision, nil)
}

// DeleteComision handles DELETE /v1/comisiones/{id}.
func (h *Handler) DeleteComision(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	if err := h.consejeros.DeleteComision(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
