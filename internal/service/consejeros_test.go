package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/consejoregional/portal-go/internal/cache"
)

func newTestConsejeroService(t *testing.T) (*ConsejeroService, *sql.DB, func()) {
	t.Helper()
	db, cleanup := testDB(t)
	svc := NewConsejeroService(db, testResolver(), nil)
	return svc, db, cleanup
}

func TestConsejeroSave_Validation(t *testing.T) {
	svc, _, cleanup := newTestConsejeroService(t)
	defer cleanup()

	_, err := svc.Save(context.Background(), SaveConsejeroInput{Apellidos: "Quispe"})
	if !IsValidation(err) {
		t.Fatalf("Save without nombres: err = %v, want validation error", err)
	}
}

func TestConsejeroGaleria_ActiveOnlyInOrder(t *testing.T) {
	svc, _, cleanup := newTestConsejeroService(t)
	defer cleanup()
	ctx := context.Background()

	seed := []SaveConsejeroInput{
		{Nombres: "Rosa", Apellidos: "Mamani", Activo: true, Orden: 2},
		{Nombres: "Luis", Apellidos: "Condori", Activo: false, Orden: 1},
		{Nombres: "Ana", Apellidos: "Apaza", Activo: true, Orden: 1},
	}
	for _, in := range seed {
		if _, err := svc.Save(ctx, in); err != nil {
			t.Fatalf("Save %s: %v", in.Nombres, err)
		}
	}

	galeria, err := svc.Galeria(ctx)
	if err != nil {
		t.Fatalf("Galeria: %v", err)
	}
	if len(galeria) != 2 {
		t.Fatalf("Galeria returned %d members, want 2", len(galeria))
	}
	if galeria[0].Nombres != "Ana" || galeria[1].Nombres != "Rosa" {
		t.Errorf("Galeria order = %s, %s; want Ana, Rosa", galeria[0].Nombres, galeria[1].Nombres)
	}

	todos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 3 {
		t.Errorf("List returned %d members, want 3", len(todos))
	}
}

func TestConsejeroPerfil_LatestNoticias(t *testing.T) {
	svc, db, cleanup := newTestConsejeroService(t)
	defer cleanup()
	ctx := context.Background()

	c, err := svc.Save(ctx, SaveConsejeroInput{
		Nombres: "Rosa", Apellidos: "Mamani", Cargo: "Presidenta", Activo: true,
	})
	if err != nil {
		t.Fatalf("Save consejero: %v", err)
	}

	mem := cache.NewMemory(time.Minute, time.Minute, 0)
	defer mem.Close()
	noticias := NewNoticiaService(db, testResolver(), mem)
	if _, err := noticias.Save(ctx, SaveNoticiaInput{
		Titulo: "Sesión ordinaria", FechaPublicacion: "2025-02-01", Activo: true,
		Consejeros: []int64{c.ID},
	}, nil); err != nil {
		t.Fatalf("Save noticia: %v", err)
	}
	if _, err := noticias.Save(ctx, SaveNoticiaInput{
		Titulo: "Borrador interno", FechaPublicacion: "2025-02-02", Activo: false,
		Consejeros: []int64{c.ID},
	}, nil); err != nil {
		t.Fatalf("Save noticia: %v", err)
	}

	perfil, err := svc.Perfil(ctx, c.ID)
	if err != nil {
		t.Fatalf("Perfil: %v", err)
	}
	if perfil.Cargo != "Presidenta" {
		t.Errorf("Cargo = %q", perfil.Cargo)
	}
	if len(perfil.Noticias) != 1 || perfil.Noticias[0].Titulo != "Sesión ordinaria" {
		t.Errorf("Perfil.Noticias = %+v, want only the active article", perfil.Noticias)
	}
}

func TestConsejeroFotoURL(t *testing.T) {
	svc, _, cleanup := newTestConsejeroService(t)
	defer cleanup()
	ctx := context.Background()

	c, err := svc.Save(ctx, SaveConsejeroInput{Nombres: "Ana", Apellidos: "Apaza", Activo: true})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	foto := sql.NullString{String: "consejeros/ana.jpg", Valid: true}
	if err := svc.queries.UpdateConsejeroFoto(ctx, c.ID, foto, time.Now()); err != nil {
		t.Fatalf("UpdateConsejeroFoto: %v", err)
	}

	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FotoUrl != "http://files.local/archivos/consejeros/ana.jpg" {
		t.Errorf("FotoUrl = %q", got.FotoUrl)
	}
}
