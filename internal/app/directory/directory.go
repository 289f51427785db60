// Package directory implements identity lookup and user administration:
// phone-number resolution for the ledger, plus the admin CRUD, contact, and
// bulk-creation flows terminals and back-office tools use.
package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulso-app/pulso/internal/domain"
	"github.com/pulso-app/pulso/internal/infra/sqlite"
)

// Service wraps the user storage operations.
type Service struct {
	db *sqlite.DB
	// baseURL prefixes generated QR code values, e.g. https://event.example.
	baseURL string
	now     func() time.Time
}

// New creates a directory service. baseURL is the public origin encoded
// into each user's QR code value.
func New(db *sqlite.DB, baseURL string) *Service {
	return &Service{
		db:      db,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ─── Lookup ─────────────────────────────────────────────────────────────────

// FindByPhone resolves a phone number to at most one user. Phone numbers
// are not enforced unique; the first user in creation order wins. Returns
// (nil, nil) when no user matches.
func (s *Service) FindByPhone(ctx context.Context, celular string) (*domain.User, error) {
	return s.db.FindUserByPhone(ctx, celular)
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.db.GetUser(ctx, id)
}

// List returns all users, newest first. Admin flows only — the ledger's
// hot path never scans the full directory.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.db.ListUsers(ctx)
}

// ─── Admin Mutations ────────────────────────────────────────────────────────

// Create registers a user with an opening balance and a QR code value
// pointing at the host terminal page.
func (s *Service) Create(ctx context.Context, in domain.NewUserInput) (*domain.User, error) {
	u, err := s.buildUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CreateBulk registers many users atomically from pre-parsed inputs (the
// spreadsheet has already been decoded upstream). Returns the assigned ids
// in input order.
func (s *Service) CreateBulk(ctx context.Context, inputs []domain.NewUserInput) ([]string, error) {
	users := make([]domain.User, 0, len(inputs))
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		u, err := s.buildUser(in)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
		ids = append(ids, u.ID)
	}
	if err := s.db.CreateUsersBulk(ctx, users); err != nil {
		return nil, fmt.Errorf("create users bulk: %w", err)
	}
	return ids, nil
}

// Update applies a partial admin update.
func (s *Service) Update(ctx context.Context, id string, patch domain.UserPatch) error {
	if patch.Saldo != nil && *patch.Saldo < 0 {
		return fmt.Errorf("%w: saldo must be >= 0", domain.ErrInvalidInput)
	}
	return s.db.UpdateUser(ctx, id, patch)
}

// Delete removes a user. The ledger never deletes users; this is an admin
// operation and committed transaction records survive it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.DeleteUser(ctx, id)
}

// ─── Contacts ───────────────────────────────────────────────────────────────
// Contacts are informational; the ledger never reads them.

// AddContact links contactID into the user's contact set. No-op when
// already present.
func (s *Service) AddContact(ctx context.Context, userID, contactID string) error {
	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range u.Contactos {
		if c == contactID {
			return nil
		}
	}
	updated := append(append([]string{}, u.Contactos...), contactID)
	return s.db.UpdateUser(ctx, userID, domain.UserPatch{Contactos: &updated})
}

// RemoveContact unlinks contactID from the user's contact set.
func (s *Service) RemoveContact(ctx context.Context, userID, contactID string) error {
	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	updated := make([]string, 0, len(u.Contactos))
	for _, c := range u.Contactos {
		if c != contactID {
			updated = append(updated, c)
		}
	}
	return s.db.UpdateUser(ctx, userID, domain.UserPatch{Contactos: &updated})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (s *Service) buildUser(in domain.NewUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, fmt.Errorf("%w: nombre is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Celular) == "" {
		return nil, fmt.Errorf("%w: celular is required", domain.ErrInvalidInput)
	}
	if in.Saldo < 0 {
		return nil, fmt.Errorf("%w: saldo must be >= 0", domain.ErrInvalidInput)
	}
	id := uuid.NewString()
	return &domain.User{
		ID:          id,
		Nombre:      strings.TrimSpace(in.Nombre),
		Celular:     strings.TrimSpace(in.Celular),
		Saldo:       in.Saldo,
		Contactos:   []string{},
		QRCodeValue: fmt.Sprintf("%s/host?userId=%s", s.baseURL, id),
		CreatedAt:   s.now(),
	}, nil
}
