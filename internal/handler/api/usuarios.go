// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/middleware"
	"github.com/consejoregional/portal-go/internal/service"
)

// UserRequest is the request body for creating or updating a back-office
// user.
type UserRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Enabled        bool   `json:"enabled"`
	Password       string `json:"password,omitempty"`
	SendInvitation bool   `json:"sendInvitation"`
}

func (req UserRequest) toInput(id int64) service.SaveUserInput {
	return service.SaveUserInput{
		ID:             id,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		Enabled:        req.Enabled,
		Password:       req.Password,
		SendInvitation: req.SendInvitation,
	}
}

// ListUsers handles GET /v1/usuarios.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.List(r.Context(),
		QueryInt64(r, "page", 0), QueryInt64(r, "size", 10))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// GetUser handles GET /v1/usuarios/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, user, nil)
}

// CreateUserResponse returns the new user plus the generated password when no
// mail channel delivered it.
type CreateUserResponse struct {
	User              any    `json:"user"`
	GeneratedPassword string `json:"generatedPassword,omitempty"`
}

// CreateUser handles POST /v1/usuarios.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	actorID := middleware.GetUserID(r)
	user, generated, err := h.users.Create(r.Context(), req.toInput(0), &actorID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, CreateUserResponse{User: user, GeneratedPassword: generated})
}

// UpdateUser handles PUT /v1/usuarios/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req UserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	actorID := middleware.GetUserID(r)
	user, err := h.users.Update(r.Context(), req.toInput(id), &actorID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, user, nil)
}

// EnabledRequest toggles a user account.
type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetUserEnabled handles PATCH /v1/usuarios/{id}/enabled.
func (h *Handler) SetUserEnabled(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	var req EnabledRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	actorID := middleware.GetUserID(r)
	if err := h.users.SetEnabled(r.Context(), id, req.Enabled, &actorID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, nil)
}

// ResetPassword handles POST /v1/usuarios/{id}/reset-password. The new
// password is mailed when SMTP is configured, otherwise returned once in the
// response.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	actorID := middleware.GetUserID(r)
	generated, err := h.users.ResetPassword(r.Context(), id, &actorID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	resp := map[string]string{"status": "ok"}
	if generated != "" {
		resp["generatedPassword"] = generated
	}
	WriteSuccess(w, resp, nil)
}

// UpdateAvatar handles POST /v1/usuarios/{id}/avatar (multipart).
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.users.UpdateAvatar(r.Context(), id, header.Filename, header.Size, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, user, nil)
}

// DeleteUser handles DELETE /v1/usuarios/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid id")
		return
	}
	actorID := middleware.GetUserID(r)
	if id == actorID {
		WriteBadRequest(w, "cannot delete your own account")
		return
	}
	if err := h.users.Delete(r.Context(), id, &actorID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
