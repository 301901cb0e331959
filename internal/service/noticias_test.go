package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/consejoregional/portal-go/internal/cache"
)

func newTestNoticiaService(t *testing.T) (*NoticiaService, *sql.DB, func()) {
	t.Helper()
	db, cleanup := testDB(t)
	mem := cache.NewMemory(time.Minute, time.Minute, 0)
	svc := NewNoticiaService(db, testResolver(), mem)
	return svc, db, func() {
		mem.Close()
		cleanup()
	}
}

func TestNoticiaSave_SlugAndSanitize(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	detalle, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo:           "Sesión de instalación del Consejo",
		Contenido:        `<p>Bienvenidos</p><script>alert("x")</script>`,
		FechaPublicacion: "2025-01-15",
		Autor:            "Prensa",
		Activo:           true,
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if detalle.Slug != "sesion-de-instalacion-del-consejo" {
		t.Errorf("Slug = %q", detalle.Slug)
	}
	if strings.Contains(detalle.Contenido, "<script>") {
		t.Errorf("Contenido was not sanitized: %q", detalle.Contenido)
	}
	if !strings.Contains(detalle.Contenido, "<p>Bienvenidos</p>") {
		t.Errorf("Contenido lost safe markup: %q", detalle.Contenido)
	}
}

func TestNoticiaSave_SlugUniqueness(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	first, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo: "Aniversario regional", FechaPublicacion: "2025-01-01", Activo: true,
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo: "Aniversario regional", FechaPublicacion: "2025-01-02", Activo: true,
	}, nil)
	if err != nil {
		t.Fatalf("Save duplicate title: %v", err)
	}
	if first.Slug == second.Slug {
		t.Errorf("both articles share slug %q", first.Slug)
	}
	if second.Slug != "aniversario-regional-2" {
		t.Errorf("second Slug = %q, want aniversario-regional-2", second.Slug)
	}
}

func TestMarcarPrincipal_SingleWinner(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	detalle, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo: "Noticia con galería", FechaPublicacion: "2025-02-01", Activo: true,
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := svc.AgregarImagen(ctx, detalle.ID, "noticias/a.jpg", true); err != nil {
		t.Fatalf("AgregarImagen A: %v", err)
	}
	imgB, err := svc.AgregarImagen(ctx, detalle.ID, "noticias/b.jpg", false)
	if err != nil {
		t.Fatalf("AgregarImagen B: %v", err)
	}

	// Image A holds the badge; marking B must move it, not duplicate it.
	if err := svc.MarcarPrincipal(ctx, imgB.ID); err != nil {
		t.Fatalf("MarcarPrincipal: %v", err)
	}

	after, err := svc.Get(ctx, detalle.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var principales []int64
	for _, img := range after.Imagenes {
		if img.EsPrincipal {
			principales = append(principales, img.ID)
		}
	}
	if len(principales) != 1 || principales[0] != imgB.ID {
		t.Errorf("principal images = %v, want exactly [%d]", principales, imgB.ID)
	}
}

func TestAgregarImagen_PrincipalDisplacesPrevious(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	detalle, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo: "Otra noticia", FechaPublicacion: "2025-02-02", Activo: true,
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := svc.AgregarImagen(ctx, detalle.ID, "noticias/1.jpg", true); err != nil {
		t.Fatalf("AgregarImagen: %v", err)
	}
	img2, err := svc.AgregarImagen(ctx, detalle.ID, "noticias/2.jpg", true)
	if err != nil {
		t.Fatalf("AgregarImagen: %v", err)
	}

	after, err := svc.Get(ctx, detalle.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	count := 0
	for _, img := range after.Imagenes {
		if img.EsPrincipal {
			count++
			if img.ID != img2.ID {
				t.Errorf("principal = %d, want %d", img.ID, img2.ID)
			}
		}
	}
	if count != 1 {
		t.Errorf("principal count = %d, want 1", count)
	}
}

func TestGetBySlug_InactiveHidden(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	detalle, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo: "Borrador", FechaPublicacion: "2025-03-01", Activo: false,
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := svc.GetBySlug(ctx, detalle.Slug); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetBySlug(inactive) = %v, want sql.ErrNoRows", err)
	}
}

func TestGetBySlug_CacheInvalidatedOnSave(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	detalle, err := svc.Save(ctx, SaveNoticiaInput{
		Titulo: "Titular original", FechaPublicacion: "2025-03-05", Activo: true,
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Prime the cache, then edit the article.
	if _, err := svc.GetBySlug(ctx, detalle.Slug); err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	updated, err := svc.Save(ctx, SaveNoticiaInput{
		ID: detalle.ID, Titulo: "Titular original",
		Bajada: "Texto nuevo", FechaPublicacion: "2025-03-05", Activo: true,
	}, nil)
	if err != nil {
		t.Fatalf("Save edit: %v", err)
	}

	got, err := svc.GetBySlug(ctx, updated.Slug)
	if err != nil {
		t.Fatalf("GetBySlug after edit: %v", err)
	}
	if got.Bajada != "Texto nuevo" {
		t.Errorf("Bajada = %q, stale cache served", got.Bajada)
	}
}

func TestNoticiaList_Pagination(t *testing.T) {
	svc, _, cleanup := newTestNoticiaService(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := svc.Save(ctx, SaveNoticiaInput{
			Titulo:           "Noticia " + string(rune('A'+i)),
			FechaPublicacion: "2025-04-01",
			Activo:           true,
		}, nil); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, 0, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Content) != 5 || page.TotalElements != 7 || page.TotalPages != 2 {
		t.Errorf("page = %d items, total=%d pages=%d", len(page.Content), page.TotalElements, page.TotalPages)
	}
}
