// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import "testing"

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"simple", "http://cdn.example.com/files", "docs/a.pdf", "http://cdn.example.com/files/docs/a.pdf"},
		{"trailing slash on base", "http://cdn.example.com/files/", "docs/a.pdf", "http://cdn.example.com/files/docs/a.pdf"},
		{"leading slash on path", "http://cdn.example.com/files", "/docs/a.pdf", "http://cdn.example.com/files/docs/a.pdf"},
		{"both slashes", "http://cdn.example.com/files/", "/docs/a.pdf", "http://cdn.example.com/files/docs/a.pdf"},
		{"multiple leading slashes", "http://cdn.example.com", "///a.pdf", "http://cdn.example.com/a.pdf"},
		{"empty path", "http://cdn.example.com", "", ""},
		{"empty base", "", "a.pdf", "/a.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinURL(tt.base, tt.path); got != tt.want {
				t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
			}
		})
	}
}

func TestResolver_DocumentoURL(t *testing.T) {
	r := NewResolver("http://local.example.com/archivos", "http://sgd.example.com/ficheros", 2025)

	tests := []struct {
		name string
		path string
		anio int64
		want string
	}{
		{"local year", "res/001.pdf", 2024, "http://local.example.com/archivos/res/001.pdf"},
		{"threshold year uses sgd", "res/002.pdf", 2025, "http://sgd.example.com/ficheros/res/002.pdf"},
		{"later year uses sgd", "/res/003.pdf", 2026, "http://sgd.example.com/ficheros/res/003.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.DocumentoURL(tt.path, tt.anio); got != tt.want {
				t.Errorf("DocumentoURL(%q, %d) = %q, want %q", tt.path, tt.anio, got, tt.want)
			}
		})
	}
}

func TestResolver_SGDBaseFallback(t *testing.T) {
	r := NewResolver("http://local.example.com/archivos", "", 2025)
	if got := r.SGDFileURL("a.pdf"); got != "http://local.example.com/archivos/a.pdf" {
		t.Errorf("SGDFileURL with empty sgd base = %q", got)
	}
}

func TestResolver_IsSGDYear(t *testing.T) {
	r := NewResolver("http://x", "http://y", 2025)
	if r.IsSGDYear(2024) {
		t.Error("2024 should not be an SGD year")
	}
	if !r.IsSGDYear(2025) {
		t.Error("2025 should be an SGD year")
	}
}
