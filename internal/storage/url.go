// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage centralizes the construction of absolute URLs for stored
// files. The backend keeps only storage-relative paths; two different bases
// apply depending on document provenance (local uploads vs the external SGD
// system), decided by a configurable year threshold.
package storage

import "strings"

// Resolver builds absolute file URLs from storage-relative paths.
type Resolver struct {
	baseURL      string
	sgdBaseURL   string
	sgdThreshold int64
}

// NewResolver creates a Resolver. sgdBaseURL falls back to baseURL when empty.
func NewResolver(baseURL, sgdBaseURL string, sgdThreshold int64) *Resolver {
	if sgdBaseURL == "" {
		sgdBaseURL = baseURL
	}
	return &Resolver{
		baseURL:      baseURL,
		sgdBaseURL:   sgdBaseURL,
		sgdThreshold: sgdThreshold,
	}
}

// JoinURL concatenates a base URL and a relative path without producing double
// slashes, normalizing any leading slash on the path. An empty path returns
// the empty string, never the bare base.
func JoinURL(base, relPath string) string {
	if relPath == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	relPath = strings.TrimLeft(relPath, "/")
	if base == "" {
		return "/" + relPath
	}
	return base + "/" + relPath
}

// FileURL resolves a locally stored file path to an absolute URL.
func (r *Resolver) FileURL(relPath string) string {
	return JoinURL(r.baseURL, relPath)
}

// SGDFileURL resolves an SGD-stored file path to an absolute URL.
func (r *Resolver) SGDFileURL(relPath string) string {
	return JoinURL(r.sgdBaseURL, relPath)
}

// IsSGDYear reports whether documents of the given year come from the external
// SGD system. The threshold is a business rule, configurable rather than
// hard-coded.
func (r *Resolver) IsSGDYear(anio int64) bool {
	return anio >= r.sgdThreshold
}

// DocumentoURL picks the storage base by the document's year and resolves the
// path.
func (r *Resolver) DocumentoURL(relPath string, anio int64) string {
	if r.IsSGDYear(anio) {
		return r.SGDFileURL(relPath)
	}
	return r.FileURL(relPath)
}
