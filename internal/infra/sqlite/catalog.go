package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pulso-app/pulso/internal/domain"
)

// ─── Experience Operations ──────────────────────────────────────────────────

// CreateExperience inserts a recharge source.
func (db *DB) CreateExperience(ctx context.Context, e *domain.Experience) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO experiences (id, nombre, valor, created_at_ms)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.Nombre, e.Valor, e.CreatedAt.UnixMilli())
	return err
}

// GetExperience retrieves an experience by id.
func (db *DB) GetExperience(ctx context.Context, id string) (*domain.Experience, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, nombre, valor, created_at_ms FROM experiences WHERE id = ?
	`, id)
	e, err := scanExperience(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("experience %s: %w", id, domain.ErrNotFound)
	}
	return e, err
}

// ListExperiences returns all experiences, newest first.
func (db *DB) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, nombre, valor, created_at_ms
		FROM experiences ORDER BY created_at_ms DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// UpdateExperience updates name and price.
func (db *DB) UpdateExperience(ctx context.Context, id string, nombre string, valor int64) error {
	res, err := db.db.ExecContext(ctx, `
		UPDATE experiences SET nombre = ?, valor = ? WHERE id = ?
	`, nombre, valor, id)
	if err != nil {
		return err
	}
	return requireRow(res, "experience", id)
}

// DeleteExperience removes an experience.
func (db *DB) DeleteExperience(ctx context.Context, id string) error {
	_, err := db.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = ?`, id)
	return err
}

// ─── Product Operations ─────────────────────────────────────────────────────

// CreateProduct inserts a debit target.
func (db *DB) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO products (id, nombre, valor, cantidad, created_at_ms)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Nombre, p.Valor, p.Cantidad, p.CreatedAt.UnixMilli())
	return err
}

// GetProduct retrieves a product by id.
func (db *DB) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, nombre, valor, cantidad, created_at_ms FROM products WHERE id = ?
	`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return p, err
}

// ListProducts returns all products, newest first.
func (db *DB) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, nombre, valor, cantidad, created_at_ms
		FROM products ORDER BY created_at_ms DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// UpdateProduct updates name, price and inventory count. Inventory changes
// through this path are admin restocks; purchases decrement inside the
// ledger transaction.
func (db *DB) UpdateProduct(ctx context.Context, id string, nombre string, valor, cantidad int64) error {
	res, err := db.db.ExecContext(ctx, `
		UPDATE products SET nombre = ?, valor = ?, cantidad = ? WHERE id = ?
	`, nombre, valor, cantidad, id)
	if err != nil {
		return err
	}
	return requireRow(res, "product", id)
}

// DeleteProduct removes a product.
func (db *DB) DeleteProduct(ctx context.Context, id string) error {
	_, err := db.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

// ─── Gallery Operations ─────────────────────────────────────────────────────

// CreateGalleryWork inserts a donation target with a zero running total.
func (db *DB) CreateGalleryWork(ctx context.Context, g *domain.GalleryWork) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO gallery_works (id, nombre, descripcion, video_url, donaciones, created_at_ms, updated_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Nombre, g.Descripcion, g.VideoURL, g.Donaciones, g.CreatedAt.UnixMilli(), g.UpdatedAt.UnixMilli())
	return err
}

// GetGalleryWork retrieves a gallery work by id.
func (db *DB) GetGalleryWork(ctx context.Context, id string) (*domain.GalleryWork, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, nombre, descripcion, video_url, donaciones, created_at_ms, updated_at_ms
		FROM gallery_works WHERE id = ?
	`, id)
	g, err := scanGalleryWork(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("gallery work %s: %w", id, domain.ErrNotFound)
	}
	return g, err
}

// ListGalleryWorks returns all gallery works, newest first.
func (db *DB) ListGalleryWorks(ctx context.Context) ([]domain.GalleryWork, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, nombre, descripcion, video_url, donaciones, created_at_ms, updated_at_ms
		FROM gallery_works ORDER BY created_at_ms DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.GalleryWork
	for rows.Next() {
		g, err := scanGalleryWork(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, rows.Err()
}

// UpdateGalleryWork updates display metadata. The donation total is only
// touched by AddDonacionTotal.
func (db *DB) UpdateGalleryWork(ctx context.Context, id string, nombre, descripcion, videoURL string) error {
	res, err := db.db.ExecContext(ctx, `
		UPDATE gallery_works SET nombre = ?, descripcion = ?, video_url = ?, updated_at_ms = ?
		WHERE id = ?
	`, nombre, descripcion, videoURL, nowMs(), id)
	if err != nil {
		return err
	}
	return requireRow(res, "gallery work", id)
}

// DeleteGalleryWork removes a gallery work. Idempotent.
func (db *DB) DeleteGalleryWork(ctx context.Context, id string) error {
	_, err := db.db.ExecContext(ctx, `DELETE FROM gallery_works WHERE id = ?`, id)
	return err
}

// AddDonacionTotal atomically adds monto to a work's running total and
// returns the new total. The total is a display aggregate: the ledger's
// transaction records remain the source of truth for donation amounts.
func (db *DB) AddDonacionTotal(ctx context.Context, id string, monto int64) (int64, error) {
	if monto <= 0 {
		return 0, fmt.Errorf("%w: monto must be > 0, got %d", domain.ErrInvalidInput, monto)
	}
	if monto > maxDonacionIncrement {
		return 0, fmt.Errorf("%w: monto %d exceeds per-call limit %d", domain.ErrInvalidInput, monto, maxDonacionIncrement)
	}

	var total int64
	err := db.withRetry(ctx, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE gallery_works SET donaciones = donaciones + ?, updated_at_ms = ?
			WHERE id = ?
		`, monto, nowMs(), id)
		if err != nil {
			return err
		}
		if err := requireRow(res, "gallery work", id); err != nil {
			return err
		}
		return tx.QueryRow(`SELECT donaciones FROM gallery_works WHERE id = ?`, id).Scan(&total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// maxDonacionIncrement caps a single running-total bump; larger jumps are
// almost certainly terminal input mistakes.
const maxDonacionIncrement = 1_000_000

// ─── Scan Helpers ───────────────────────────────────────────────────────────

func scanExperience(row rowScanner) (*domain.Experience, error) {
	var e domain.Experience
	var createdMs int64
	if err := row.Scan(&e.ID, &e.Nombre, &e.Valor, &createdMs); err != nil {
		return nil, err
	}
	e.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &e, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var createdMs int64
	if err := row.Scan(&p.ID, &p.Nombre, &p.Valor, &p.Cantidad, &createdMs); err != nil {
		return nil, err
	}
	p.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &p, nil
}

func scanGalleryWork(row rowScanner) (*domain.GalleryWork, error) {
	var g domain.GalleryWork
	var createdMs, updatedMs int64
	if err := row.Scan(&g.ID, &g.Nombre, &g.Descripcion, &g.VideoURL, &g.Donaciones, &createdMs, &updatedMs); err != nil {
		return nil, err
	}
	g.CreatedAt = time.UnixMilli(createdMs).UTC()
	g.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return &g, nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
