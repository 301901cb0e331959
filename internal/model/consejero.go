// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Consejero is a regional council member profile shown on the portal.
type Consejero struct {
	ID        int64          `json:"id"`
	Nombres   string         `json:"nombres"`
	Apellidos string         `json:"apellidos"`
	Cargo     string         `json:"cargo"`
	Provincia string         `json:"provincia"`
	Biografia string         `json:"biografia"`
	Foto      sql.NullString `json:"-"`
	Email     string         `json:"email"`
	Activo    bool           `json:"activo"`
	Orden     int64          `json:"orden"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

// NombreCompleto returns the display name used in listings.
func (c *Consejero) NombreCompleto() string {
	return c.Nombres + " " + c.Apellidos
}

// Comision is a council committee, associated many-to-many with documents and
// news articles.
type Comision struct {
	ID          int64  `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"activo"`
}
