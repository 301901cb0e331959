// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/storage"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/util"
)

// MaxDocumentoSize is the upload size ceiling for document files.
const MaxDocumentoSize = 50 << 20 // 50MB

// allowedDocumentoExtensions is the upload allow-list. Anything else is
// rejected before the file is touched.
var allowedDocumentoExtensions = map[string]bool{
	"pdf":  true,
	"docx": true,
	"xlsx": true,
	"pptx": true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// FileExtension returns the lowercased extension of a filename without the dot.
func FileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ValidateDocumentoUpload checks a candidate upload against the extension
// allow-list and the size ceiling. It runs before any file is written.
func ValidateDocumentoUpload(filename string, size int64) error {
	ext := FileExtension(filename)
	if !allowedDocumentoExtensions[ext] {
		return Invalid("file extension %q is not allowed", ext)
	}
	if size > MaxDocumentoSize {
		return Invalid("file size %d exceeds the %d byte limit", size, MaxDocumentoSize)
	}
	if size <= 0 {
		return Invalid("file is empty")
	}
	return nil
}

// AddID appends id to ids unless it is already present. Adding a duplicate is
// a no-op.
func AddID(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// DedupIDs removes duplicates from ids, keeping first-seen order.
func DedupIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = AddID(out, id)
	}
	return out
}

// DocumentoService manages the year/folder document archive and the SGD
// synchronization records.
type DocumentoService struct {
	queries    *store.Queries
	resolver   *storage.Resolver
	uploadsDir string
	events     *EventService
}

// NewDocumentoService creates a new DocumentoService. Uploaded files land
// under uploadsDir/documentos.
func NewDocumentoService(db *sql.DB, resolver *storage.Resolver, uploadsDir string) *DocumentoService {
	return &DocumentoService{
		queries:    store.New(db),
		resolver:   resolver,
		uploadsDir: uploadsDir,
		events:     NewEventService(db),
	}
}

// --- Folder browsing ----------------------------------------------------------

// FolderQuery identifies one folder page: a (tipo, anio) pair plus the
// folder-local pagination and filter state. Page is 0-based.
type FolderQuery struct {
	TipoDocumentoID int64
	AnioID          int64
	Page            int64
	Size            int64
	Search          string
	Activo          *bool
}

// DefaultFolderPageSize applies when a query carries no page size.
const DefaultFolderPageSize = 10

// MaxFolderPageSize caps the page size a client may request.
const MaxFolderPageSize = 100

// Normalize clamps the pagination fields to sane values.
func (fq FolderQuery) Normalize() FolderQuery {
	if fq.Size <= 0 {
		fq.Size = DefaultFolderPageSize
	}
	if fq.Size > MaxFolderPageSize {
		fq.Size = MaxFolderPageSize
	}
	if fq.Page < 0 {
		fq.Page = 0
	}
	return fq
}

// ResetPageIfChanged returns fq with Page forced back to 0 whenever the search
// term, page size or activo filter differs from prev. A pure page change keeps
// everything else intact.
//
// The HTTP API is stateless and builds a fresh query per request, so nothing
// in the handler path calls this; it encodes the paging rule a folder client
// must follow between requests, and keeps that rule testable server-side.
func (fq FolderQuery) ResetPageIfChanged(prev FolderQuery) FolderQuery {
	if fq.Search != prev.Search || fq.Size != prev.Size || !boolPtrEqual(fq.Activo, prev.Activo) {
		fq.Page = 0
	}
	return fq
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DocumentoView is a document record with its resolved absolute URL and the
// SGD provenance flag.
type DocumentoView struct {
	model.Documento
	Url string `json:"url"`
	SGD bool   `json:"sgd"`
}

// FolderPage is one server-authoritative page of a folder. TotalElements and
// TotalPages always reflect the query that produced the page.
type FolderPage struct {
	Content       []DocumentoView `json:"content"`
	Page          int64           `json:"page"`
	Size          int64           `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int64           `json:"totalPages"`
}

// Browse returns one page of a folder's documents with resolved URLs.
func (s *DocumentoService) Browse(ctx context.Context, fq FolderQuery) (FolderPage, error) {
	fq = fq.Normalize()

	anio, err := s.queries.GetAnioByID(ctx, fq.AnioID)
	if err != nil {
		return FolderPage{}, fmt.Errorf("fetching year %d: %w", fq.AnioID, err)
	}

	var activo sql.NullBool
	if fq.Activo != nil {
		activo = sql.NullBool{Bool: *fq.Activo, Valid: true}
	}
	params := store.ListDocumentosByFolderParams{
		TipoDocumentoID: fq.TipoDocumentoID,
		AnioID:          fq.AnioID,
		Search:          util.NormalizeSearch(fq.Search),
		Activo:          activo,
		Limit:           fq.Size,
		Offset:          fq.Page * fq.Size,
	}

	docs, err := s.queries.ListDocumentosByFolder(ctx, params)
	if err != nil {
		return FolderPage{}, fmt.Errorf("listing folder documents: %w", err)
	}
	total, err := s.queries.CountDocumentosByFolder(ctx, params)
	if err != nil {
		return FolderPage{}, fmt.Errorf("counting folder documents: %w", err)
	}

	sgd := s.resolver.IsSGDYear(anio.Anio)
	content := make([]DocumentoView, 0, len(docs))
	for _, d := range docs {
		content = append(content, DocumentoView{
			Documento: d,
			Url:       s.resolver.DocumentoURL(d.UrlDocumento, anio.Anio),
			SGD:       sgd,
		})
	}

	totalPages := total / fq.Size
	if total%fq.Size != 0 {
		totalPages++
	}
	return FolderPage{
		Content:       content,
		Page:          fq.Page,
		Size:          fq.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// Anios returns the year buckets, most recent first.
func (s *DocumentoService) Anios(ctx context.Context) ([]model.Anio, error) {
	return s.queries.ListAnios(ctx)
}

// Tipos returns the document-type folders.
func (s *DocumentoService) Tipos(ctx context.Context) ([]model.TipoDocumento, error) {
	return s.queries.ListTiposDocumento(ctx)
}

// CreateAnio opens a year folder, reusing an existing one for the same year.
func (s *DocumentoService) CreateAnio(ctx context.Context, anio int64) (model.Anio, error) {
	if anio < 1990 || anio > 2100 {
		return model.Anio{}, Invalid("anio %d out of range", anio)
	}
	existing, err := s.queries.GetAnioByValue(ctx, anio)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Anio{}, err
	}
	return s.queries.CreateAnio(ctx, anio)
}

// CreateTipo opens a document-type folder.
func (s *DocumentoService) CreateTipo(ctx context.Context, nombre, codigo string) (model.TipoDocumento, error) {
	nombre = strings.TrimSpace(nombre)
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if nombre == "" || codigo == "" {
		return model.TipoDocumento{}, Invalid("nombre and codigo are required")
	}
	return s.queries.CreateTipoDocumento(ctx, nombre, codigo)
}

// --- Create / edit ------------------------------------------------------------

// DocumentoDetalle is a document with its tag and association sets, used by
// the edit form.
type DocumentoDetalle struct {
	DocumentoView
	Tags       []string `json:"tagsDocumento"`
	Consejeros []int64  `json:"consejeros"`
	Comisiones []int64  `json:"comisiones"`
}

// Get fetches a document with its associations and resolved URL.
func (s *DocumentoService) Get(ctx context.Context, id int64) (DocumentoDetalle, error) {
	doc, err := s.queries.GetDocumentoByID(ctx, id)
	if err != nil {
		return DocumentoDetalle{}, err
	}
	anio, err := s.queries.GetAnioByID(ctx, doc.AnioID)
	if err != nil {
		return DocumentoDetalle{}, fmt.Errorf("fetching year %d: %w", doc.AnioID, err)
	}
	tags, err := s.queries.ListDocumentoTags(ctx, id)
	if err != nil {
		return DocumentoDetalle{}, err
	}
	consejeros, err := s.queries.ListDocumentoConsejeros(ctx, id)
	if err != nil {
		return DocumentoDetalle{}, err
	}
	comisiones, err := s.queries.ListDocumentoComisiones(ctx, id)
	if err != nil {
		return DocumentoDetalle{}, err
	}
	return DocumentoDetalle{
		DocumentoView: DocumentoView{
			Documento: doc,
			Url:       s.resolver.DocumentoURL(doc.UrlDocumento, anio.Anio),
			SGD:       s.resolver.IsSGDYear(anio.Anio),
		},
		Tags:       tags,
		Consejeros: consejeros,
		Comisiones: comisiones,
	}, nil
}

// SaveUpload validates and stores an uploaded document file, returning its
// storage-relative path.
func (s *DocumentoService) SaveUpload(filename string, size int64, r io.Reader) (string, error) {
	if err := ValidateDocumentoUpload(filename, size); err != nil {
		return "", err
	}

	dir := filepath.Join(s.uploadsDir, "documentos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	name := uuid.New().String() + "." + FileExtension(filename)
	dst := filepath.Join(dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(r, MaxDocumentoSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxDocumentoSize {
		err = Invalid("file size exceeds the %d byte limit", int64(MaxDocumentoSize))
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return "documentos/" + name, nil
}

// SaveDocumentoInput holds the editable fields of a document. ID zero means
// create; non-zero means update. UrlDocumento, Extension and Tamanio are only
// read on create, because edits never replace the stored file.
type SaveDocumentoInput struct {
	ID              int64
	NumeroDocumento string
	NombreDocumento string
	Descripcion     string
	FechaEmision    string
	Activo          bool
	TipoDocumentoID int64
	AnioID          int64
	UrlDocumento    string
	Extension       string
	Tamanio         int64
	Tags            []string
	Consejeros      []int64
	Comisiones      []int64
}

func (s *DocumentoService) validateDocumento(ctx context.Context, in SaveDocumentoInput) (SaveDocumentoInput, error) {
	if in.NombreDocumento == "" {
		return in, Invalid("nombreDocumento is required")
	}
	fecha, err := ParseFecha(in.FechaEmision)
	if err != nil {
		return in, err
	}
	in.FechaEmision = fecha

	if _, err := s.queries.GetTipoDocumentoByID(ctx, in.TipoDocumentoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return in, Invalid("unknown tipoDocumento %d", in.TipoDocumentoID)
		}
		return in, err
	}
	if _, err := s.queries.GetAnioByID(ctx, in.AnioID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return in, Invalid("unknown anio %d", in.AnioID)
		}
		return in, err
	}
	return in, nil
}

// Save creates or updates a document and replaces its tag and association
// sets. Association inputs are de-duplicated.
func (s *DocumentoService) Save(ctx context.Context, in SaveDocumentoInput, userID *int64) (DocumentoDetalle, error) {
	in, err := s.validateDocumento(ctx, in)
	if err != nil {
		return DocumentoDetalle{}, err
	}
	now := time.Now()

	var id int64
	if in.ID == 0 {
		if in.UrlDocumento == "" {
			return DocumentoDetalle{}, Invalid("a file is required for a new document")
		}
		doc, err := s.queries.CreateDocumento(ctx, store.CreateDocumentoParams{
			NumeroDocumento: in.NumeroDocumento,
			NombreDocumento: in.NombreDocumento,
			Descripcion:     in.Descripcion,
			FechaEmision:    in.FechaEmision,
			Activo:          in.Activo,
			UrlDocumento:    in.UrlDocumento,
			TipoDocumentoID: in.TipoDocumentoID,
			AnioID:          in.AnioID,
			Extension:       in.Extension,
			Tamanio:         in.Tamanio,
			Busqueda:        util.SearchText(in.NumeroDocumento, in.NombreDocumento, in.Descripcion),
			CreatedBy:       util.NullInt64FromPtr(userID),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return DocumentoDetalle{}, fmt.Errorf("creating documento: %w", err)
		}
		id = doc.ID
		_ = s.events.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryDocumento,
			"documento created: "+doc.NombreDocumento, userID, map[string]any{"documento_id": id})
	} else {
		id = in.ID
		err := s.queries.UpdateDocumento(ctx, store.UpdateDocumentoParams{
			ID:              id,
			NumeroDocumento: in.NumeroDocumento,
			NombreDocumento: in.NombreDocumento,
			Descripcion:     in.Descripcion,
			FechaEmision:    in.FechaEmision,
			Activo:          in.Activo,
			TipoDocumentoID: in.TipoDocumentoID,
			AnioID:          in.AnioID,
			Busqueda:        util.SearchText(in.NumeroDocumento, in.NombreDocumento, in.Descripcion),
			UpdatedAt:       now,
		})
		if err != nil {
			return DocumentoDetalle{}, fmt.Errorf("updating documento %d: %w", id, err)
		}
	}

	if err := s.queries.ReplaceDocumentoTags(ctx, id, in.Tags); err != nil {
		return DocumentoDetalle{}, fmt.Errorf("replacing tags: %w", err)
	}
	if err := s.queries.ReplaceDocumentoConsejeros(ctx, id, DedupIDs(in.Consejeros)); err != nil {
		return DocumentoDetalle{}, fmt.Errorf("replacing consejeros: %w", err)
	}
	if err := s.queries.ReplaceDocumentoComisiones(ctx, id, DedupIDs(in.Comisiones)); err != nil {
		return DocumentoDetalle{}, fmt.Errorf("replacing comisiones: %w", err)
	}
	return s.Get(ctx, id)
}

// SetActivo toggles a document's activo flag. The archive never hard-deletes.
func (s *DocumentoService) SetActivo(ctx context.Context, id int64, activo bool) error {
	return s.queries.SetDocumentoActivo(ctx, id, activo, time.Now())
}

// --- SGD synchronization ------------------------------------------------------

// SincronizacionDetalle is a synchronization record with its categorization
// sets. SGD documents carry no local metadata, only these sets.
type SincronizacionDetalle struct {
	model.DocumentoSincronizacion
	Tags       []string `json:"tagsDocumento"`
	Consejeros []int64  `json:"consejeros"`
	Comisiones []int64  `json:"comisiones"`
}

// FindOrCreateSincronizacion looks up the synchronization record for an
// emission code, creating one if none exists yet.
func (s *DocumentoService) FindOrCreateSincronizacion(ctx context.Context, codigoEmision string) (SincronizacionDetalle, error) {
	if codigoEmision == "" {
		return SincronizacionDetalle{}, Invalid("codigoEmision is required")
	}

	sinc, err := s.queries.GetSincronizacionByCodigo(ctx, codigoEmision)
	if errors.Is(err, sql.ErrNoRows) {
		sinc, err = s.queries.CreateSincronizacion(ctx, codigoEmision, time.Now())
	}
	if err != nil {
		return SincronizacionDetalle{}, fmt.Errorf("resolving sincronizacion %q: %w", codigoEmision, err)
	}
	return s.sincronizacionDetalle(ctx, sinc)
}

func (s *DocumentoService) sincronizacionDetalle(ctx context.Context, sinc model.DocumentoSincronizacion) (SincronizacionDetalle, error) {
	tags, err := s.queries.ListSincronizacionTags(ctx, sinc.ID)
	if err != nil {
		return SincronizacionDetalle{}, err
	}
	consejeros, err := s.queries.ListSincronizacionConsejeros(ctx, sinc.ID)
	if err != nil {
		return SincronizacionDetalle{}, err
	}
	comisiones, err := s.queries.ListSincronizacionComisiones(ctx, sinc.ID)
	if err != nil {
		return SincronizacionDetalle{}, err
	}
	return SincronizacionDetalle{
		DocumentoSincronizacion: sinc,
		Tags:                    tags,
		Consejeros:              consejeros,
		Comisiones:              comisiones,
	}, nil
}

// SaveSincronizacion replaces the categorization sets of a synchronization
// record, creating the record for new emission codes.
func (s *DocumentoService) SaveSincronizacion(ctx context.Context, codigoEmision string, tags []string, consejeros, comisiones []int64) (SincronizacionDetalle, error) {
	detalle, err := s.FindOrCreateSincronizacion(ctx, codigoEmision)
	if err != nil {
		return SincronizacionDetalle{}, err
	}
	id := detalle.ID

	if err := s.queries.ReplaceSincronizacionTags(ctx, id, tags); err != nil {
		return SincronizacionDetalle{}, fmt.Errorf("replacing tags: %w", err)
	}
	if err := s.queries.ReplaceSincronizacionConsejeros(ctx, id, DedupIDs(consejeros)); err != nil {
		return SincronizacionDetalle{}, fmt.Errorf("replacing consejeros: %w", err)
	}
	if err := s.queries.ReplaceSincronizacionComisiones(ctx, id, DedupIDs(comisiones)); err != nil {
		return SincronizacionDetalle{}, fmt.Errorf("replacing comisiones: %w", err)
	}
	if err := s.queries.TouchSincronizacion(ctx, id, time.Now()); err != nil {
		return SincronizacionDetalle{}, err
	}
	return s.sincronizacionDetalle(ctx, detalle.DocumentoSincronizacion)
}
