// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/service"
	"github.com/consejoregional/portal-go/internal/store"
)

// seedFolder creates a tipo and anio pair directly in the store.
func seedFolder(t *testing.T, a *testAPI) (model.TipoDocumento, model.Anio) {
	t.Helper()
	q := store.New(a.db)
	tipo, err := q.CreateTipoDocumento(context.Background(), "Resoluciones", "RES")
	if err != nil {
		t.Fatalf("create tipo: %v", err)
	}
	anio, err := q.CreateAnio(context.Background(), 2024)
	if err != nil {
		t.Fatalf("create anio: %v", err)
	}
	return tipo, anio
}

func TestDocumentoUploadAndCreate(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")
	tipo, anio := seedFolder(t, a)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "resolucion-001.pdf")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4 test payload"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documentos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}

	var uploaded struct {
		Data UploadResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if uploaded.Data.Extension != "pdf" || uploaded.Data.Url == "" {
		t.Fatalf("unexpected upload response: %+v", uploaded.Data)
	}

	rec := a.do(http.MethodPost, "/v1/documentos", DocumentoRequest{
		NumeroDocumento: "001-2024",
		NombreDocumento: "Resolución 001",
		FechaEmision:    "2024-05-10",
		Activo:          true,
		TipoDocumentoID: tipo.ID,
		AnioID:          anio.ID,
		UrlDocumento:    uploaded.Data.Url,
		Extension:       uploaded.Data.Extension,
		Tamanio:         uploaded.Data.Tamanio,
	}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	browse := a.do(http.MethodGet,
		fmt.Sprintf("/v1/documentos/tipo/%d?anioId=%d", tipo.ID, anio.ID), nil, cookies)
	if browse.Code != http.StatusOK {
		t.Fatalf("browse status = %d", browse.Code)
	}
	var page struct {
		Data service.FolderPage `json:"data"`
	}
	if err := json.Unmarshal(browse.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Data.TotalElements != 1 || len(page.Data.Content) != 1 {
		t.Fatalf("folder page = %+v", page.Data)
	}
}

func TestDocumentoEditRoundTrip(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")
	tipo, anio := seedFolder(t, a)

	rec := a.do(http.MethodPost, "/v1/documentos", DocumentoRequest{
		NumeroDocumento: "001-2024",
		NombreDocumento: "Resolución 001",
		FechaEmision:    "2024-05-10",
		Activo:          true,
		TipoDocumentoID: tipo.ID,
		AnioID:          anio.ID,
		UrlDocumento:    "documentos/res-001.pdf",
		Extension:       "pdf",
		Tags:            []string{"presupuesto"},
	}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	// The edit form loads the full record and PUTs it back, resolved url and
	// sgd flag included. Those extra fields must not break decoding, and
	// tipoDocumento/anios must survive the round trip.
	w := a.do(http.MethodGet, "/v1/documentos/1", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}
	var loaded struct {
		Data service.DocumentoDetalle `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.Data.Url == "" {
		t.Fatalf("loaded record carries no resolved url: %+v", loaded.Data)
	}

	edited := loaded.Data
	edited.NombreDocumento = "Resolución 001 (rectificada)"
	edited.Tags = []string{"presupuesto", "rectificación"}

	w = a.do(http.MethodPut, "/v1/documentos/1", edited, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	var updated struct {
		Data service.DocumentoDetalle `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if updated.Data.NombreDocumento != "Resolución 001 (rectificada)" {
		t.Errorf("nombre = %q", updated.Data.NombreDocumento)
	}
	if updated.Data.TipoDocumentoID != tipo.ID || updated.Data.AnioID != anio.ID {
		t.Errorf("folder moved: tipo %d anio %d", updated.Data.TipoDocumentoID, updated.Data.AnioID)
	}
	if len(updated.Data.Tags) != 2 {
		t.Errorf("tags = %v", updated.Data.Tags)
	}
}

func TestDocumentoUploadRejectsExtension(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "script.exe")
	_, _ = fw.Write([]byte("MZ"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documentos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPrincipalDocumentosHidesInactive(t *testing.T) {
	a := newTestAPI(t)
	a.createTestAdmin(t, "admin@cr.gob.pe", "hunter2hunter2", model.RoleAdmin)
	cookies, _ := a.login(t, "admin@cr.gob.pe", "hunter2hunter2")
	tipo, anio := seedFolder(t, a)

	for i, activo := range []bool{true, false} {
		rec := a.do(http.MethodPost, "/v1/documentos", DocumentoRequest{
			NumeroDocumento: fmt.Sprintf("%03d-2024", i+1),
			NombreDocumento: fmt.Sprintf("Resolución %03d", i+1),
			FechaEmision:    "2024-05-10",
			Activo:          activo,
			TipoDocumentoID: tipo.ID,
			AnioID:          anio.ID,
			UrlDocumento:    fmt.Sprintf("documentos/res-%03d.pdf", i+1),
			Extension:       "pdf",
		}, cookies)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
	}

	// The public endpoint ignores an activo=false override.
	w := a.do(http.MethodGet,
		fmt.Sprintf("/public/principal/documentos/tipo/%d?anioId=%d&activo=false", tipo.ID, anio.ID), nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var page struct {
		Data service.FolderPage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Data.TotalElements != 1 {
		t.Fatalf("totalElements = %d, want 1", page.Data.TotalElements)
	}
}
