// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Documento represents an official document record (normativa, balance, acta)
// stored under one document-type folder and one year bucket. UrlDocumento is a
// storage-relative path; absolute URLs are built by the storage package.
type Documento struct {
	ID              int64         `json:"id"`
	NumeroDocumento string        `json:"numeroDocumento"`
	NombreDocumento string        `json:"nombreDocumento"`
	Descripcion     string        `json:"descripcion"`
	FechaEmision    string        `json:"fechaEmision"`
	Activo          bool          `json:"activo"`
	UrlDocumento    string        `json:"urlDocumento"`
	TipoDocumentoID int64         `json:"tipoDocumento"`
	AnioID          int64         `json:"anios"`
	Extension       string        `json:"extension"`
	Tamanio         int64         `json:"tamanio"`
	CreatedBy       sql.NullInt64 `json:"-"`
	CreatedAt       time.Time     `json:"-"`
	UpdatedAt       time.Time     `json:"-"`
}

// TipoDocumento is a document-type folder (Resoluciones, Acuerdos, ...).
// The same folder set is rendered under every year bucket.
type TipoDocumento struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
}

// Anio is a year bucket grouping documents.
type Anio struct {
	ID   int64 `json:"id"`
	Anio int64 `json:"anio"`
}

// DocumentoSincronizacion links an externally managed (SGD) document,
// identified by its emission code, to locally maintained categorization.
// SGD documents carry no editable metadata here, only tags and associations.
type DocumentoSincronizacion struct {
	ID            int64     `json:"id"`
	CodigoEmision string    `json:"codigoEmision"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
