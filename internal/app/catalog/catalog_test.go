package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pulso-app/pulso/internal/domain"
	"github.com/pulso-app/pulso/internal/infra/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestCreateExperienceValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateExperience(ctx, "  ", 100); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("blank nombre: error = %v, want ErrInvalidInput", err)
	}
	if _, err := s.CreateExperience(ctx, "Recarga", -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative valor: error = %v, want ErrInvalidInput", err)
	}

	e, err := s.CreateExperience(ctx, "Recarga 50", 50000)
	if err != nil {
		t.Fatalf("CreateExperience() error: %v", err)
	}
	got, err := s.GetExperience(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nombre != "Recarga 50" || got.Valor != 50000 {
		t.Errorf("got %s/%d, want Recarga 50/50000", got.Nombre, got.Valor)
	}
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, "Cerveza", 3000, -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative cantidad: error = %v, want ErrInvalidInput", err)
	}

	p, err := s.CreateProduct(ctx, "Cerveza", 3000, 24)
	if err != nil {
		t.Fatalf("CreateProduct() error: %v", err)
	}
	got, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cantidad != 24 {
		t.Errorf("cantidad = %d, want 24", got.Cantidad)
	}
}

func TestGalleryWorkLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateGalleryWork(ctx, "Obra", "", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty descripcion: error = %v, want ErrInvalidInput", err)
	}

	g, err := s.CreateGalleryWork(ctx, "Obra Azul", "Instalación de luz", "https://cdn.example/v.mp4")
	if err != nil {
		t.Fatalf("CreateGalleryWork() error: %v", err)
	}
	if g.Donaciones != 0 {
		t.Errorf("Donaciones = %d, want 0", g.Donaciones)
	}

	if err := s.UpdateGalleryWork(ctx, g.ID, "Obra Azul II", "Nueva descripción", g.VideoURL); err != nil {
		t.Fatalf("UpdateGalleryWork() error: %v", err)
	}
	got, err := s.GetGalleryWork(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nombre != "Obra Azul II" {
		t.Errorf("Nombre = %q, want updated name", got.Nombre)
	}

	if err := s.DeleteGalleryWork(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGalleryWork() error: %v", err)
	}
	if _, err := s.GetGalleryWork(ctx, g.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestAddDonationTotal(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	g, err := s.CreateGalleryWork(ctx, "Obra", "Descripción", "")
	if err != nil {
		t.Fatal(err)
	}

	total, err := s.AddDonationTotal(ctx, g.ID, 4000)
	if err != nil {
		t.Fatalf("AddDonationTotal() error: %v", err)
	}
	if total != 4000 {
		t.Errorf("total = %d, want 4000", total)
	}
	total, err = s.AddDonationTotal(ctx, g.ID, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if total != 5500 {
		t.Errorf("total = %d, want 5500", total)
	}

	if _, err := s.AddDonationTotal(ctx, g.ID, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("zero monto: error = %v, want ErrInvalidInput", err)
	}
	if _, err := s.AddDonationTotal(ctx, "ghost", 100); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing work: error = %v, want ErrNotFound", err)
	}

	got, _ := s.GetGalleryWork(ctx, g.ID)
	if got.Donaciones != 5500 {
		t.Errorf("Donaciones = %d after failed increments, want 5500", got.Donaciones)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	names := []string{"Primera", "Segunda", "Tercera"}
	for _, n := range names {
		if _, err := s.CreateExperience(ctx, n, 100); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.ListExperiences(ctx)
	if err != nil {
		t.Fatalf("ListExperiences() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
}
