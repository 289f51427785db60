// Package catalog implements administration of priced entities: experiences
// (recharge sources), products (debit targets with inventory), and gallery
// works (donation targets). The ledger engine reads these entities inside
// its own transaction; this service owns their lifecycle and the gallery
// running-total increment.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulso-app/pulso/internal/domain"
	"github.com/pulso-app/pulso/internal/infra/observability"
	"github.com/pulso-app/pulso/internal/infra/sqlite"
)

// Service wraps catalog storage operations.
type Service struct {
	db  *sqlite.DB
	now func() time.Time
}

// New creates a catalog service.
func New(db *sqlite.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ─── Experiences ────────────────────────────────────────────────────────────

// CreateExperience registers a recharge source.
func (s *Service) CreateExperience(ctx context.Context, nombre string, valor int64) (*domain.Experience, error) {
	if strings.TrimSpace(nombre) == "" {
		return nil, fmt.Errorf("%w: nombre is required", domain.ErrInvalidInput)
	}
	if valor < 0 {
		return nil, fmt.Errorf("%w: valor must be >= 0", domain.ErrInvalidInput)
	}
	e := &domain.Experience{
		ID:        uuid.NewString(),
		Nombre:    strings.TrimSpace(nombre),
		Valor:     valor,
		CreatedAt: s.now(),
	}
	if err := s.db.CreateExperience(ctx, e); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return e, nil
}

// GetExperience retrieves an experience by id.
func (s *Service) GetExperience(ctx context.Context, id string) (*domain.Experience, error) {
	return s.db.GetExperience(ctx, id)
}

// ListExperiences returns all experiences, newest first.
func (s *Service) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	return s.db.ListExperiences(ctx)
}

// UpdateExperience updates name and price.
func (s *Service) UpdateExperience(ctx context.Context, id, nombre string, valor int64) error {
	if valor < 0 {
		return fmt.Errorf("%w: valor must be >= 0", domain.ErrInvalidInput)
	}
	return s.db.UpdateExperience(ctx, id, nombre, valor)
}

// DeleteExperience removes an experience.
func (s *Service) DeleteExperience(ctx context.Context, id string) error {
	return s.db.DeleteExperience(ctx, id)
}

// ─── Products ───────────────────────────────────────────────────────────────

// CreateProduct registers a debit target with an opening inventory count.
func (s *Service) CreateProduct(ctx context.Context, nombre string, valor, cantidad int64) (*domain.Product, error) {
	if strings.TrimSpace(nombre) == "" {
		return nil, fmt.Errorf("%w: nombre is required", domain.ErrInvalidInput)
	}
	if valor < 0 {
		return nil, fmt.Errorf("%w: valor must be >= 0", domain.ErrInvalidInput)
	}
	if cantidad < 0 {
		return nil, fmt.Errorf("%w: cantidad must be >= 0", domain.ErrInvalidInput)
	}
	p := &domain.Product{
		ID:        uuid.NewString(),
		Nombre:    strings.TrimSpace(nombre),
		Valor:     valor,
		Cantidad:  cantidad,
		CreatedAt: s.now(),
	}
	if err := s.db.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// GetProduct retrieves a product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.db.GetProduct(ctx, id)
}

// ListProducts returns all products, newest first.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.db.ListProducts(ctx)
}

// UpdateProduct updates name, price, and inventory (admin restock).
func (s *Service) UpdateProduct(ctx context.Context, id, nombre string, valor, cantidad int64) error {
	if valor < 0 || cantidad < 0 {
		return fmt.Errorf("%w: valor and cantidad must be >= 0", domain.ErrInvalidInput)
	}
	return s.db.UpdateProduct(ctx, id, nombre, valor, cantidad)
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.db.DeleteProduct(ctx, id)
}

// ─── Gallery Works ──────────────────────────────────────────────────────────

// CreateGalleryWork registers a donation target. videoURL points at
// externally hosted media; blob storage is out of scope here.
func (s *Service) CreateGalleryWork(ctx context.Context, nombre, descripcion, videoURL string) (*domain.GalleryWork, error) {
	if strings.TrimSpace(nombre) == "" {
		return nil, fmt.Errorf("%w: nombre is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(descripcion) == "" {
		return nil, fmt.Errorf("%w: descripcion is required", domain.ErrInvalidInput)
	}
	now := s.now()
	g := &domain.GalleryWork{
		ID:          uuid.NewString(),
		Nombre:      strings.TrimSpace(nombre),
		Descripcion: strings.TrimSpace(descripcion),
		VideoURL:    videoURL,
		Donaciones:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.CreateGalleryWork(ctx, g); err != nil {
		return nil, fmt.Errorf("create gallery work: %w", err)
	}
	return g, nil
}

// GetGalleryWork retrieves a gallery work by id.
func (s *Service) GetGalleryWork(ctx context.Context, id string) (*domain.GalleryWork, error) {
	return s.db.GetGalleryWork(ctx, id)
}

// ListGalleryWorks returns all gallery works, newest first.
func (s *Service) ListGalleryWorks(ctx context.Context) ([]domain.GalleryWork, error) {
	return s.db.ListGalleryWorks(ctx)
}

// UpdateGalleryWork updates display metadata.
func (s *Service) UpdateGalleryWork(ctx context.Context, id, nombre, descripcion, videoURL string) error {
	return s.db.UpdateGalleryWork(ctx, id, nombre, descripcion, videoURL)
}

// DeleteGalleryWork removes a gallery work.
func (s *Service) DeleteGalleryWork(ctx context.Context, id string) error {
	return s.db.DeleteGalleryWork(ctx, id)
}

// AddDonationTotal atomically adds monto to a work's running total and
// returns the new total. Callers invoke this after a successful Donate on
// the ledger; the counter is an eventually-consistent display aggregate,
// not the ledger of record. monto must be > 0 and within the per-call cap.
func (s *Service) AddDonationTotal(ctx context.Context, id string, monto int64) (int64, error) {
	total, err := s.db.AddDonacionTotal(ctx, id, monto)
	if err != nil {
		return 0, err
	}
	observability.DonationIncrements.Inc()
	return total, nil
}
