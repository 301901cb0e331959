// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Noticia is a news article. The long-form fields hold sanitized HTML produced
// by the rich-text editor in the back office.
type Noticia struct {
	ID               int64     `json:"id"`
	Titulo           string    `json:"titulo"`
	Slug             string    `json:"slug"`
	Gorro            string    `json:"gorro"`
	Bajada           string    `json:"bajada"`
	Introduccion     string    `json:"introduccion"`
	Contenido        string    `json:"contenido"`
	Conclusion       string    `json:"conclusion"`
	Nota             string    `json:"nota"`
	FechaPublicacion string    `json:"fechaPublicacion"`
	Autor            string    `json:"autor"`
	Activo           bool      `json:"activo"`
	Destacado        bool      `json:"destacado"`
	DestacadoAntigua bool      `json:"destacadoAntigua"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// NoticiaImagen is an image attached to a news article. At most one image per
// article has EsPrincipal set; marking one clears the rest.
type NoticiaImagen struct {
	ID          int64  `json:"id"`
	NoticiaID   int64  `json:"noticiaId"`
	Url         string `json:"url"`
	EsPrincipal bool   `json:"esPrincipal"`
}
