package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pulso-app/pulso/internal/domain"
)

// ─── Tx-Scoped Catalog Reads ────────────────────────────────────────────────

// ExperienceByID reads an experience inside the transaction.
func (t *Tx) ExperienceByID(id string) (*domain.Experience, error) {
	row := t.tx.QueryRow(`
		SELECT id, nombre, valor, created_at_ms FROM experiences WHERE id = ?
	`, id)
	e, err := scanExperience(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ProductByID reads a product inside the transaction.
func (t *Tx) ProductByID(id string) (*domain.Product, error) {
	row := t.tx.QueryRow(`
		SELECT id, nombre, valor, cantidad, created_at_ms FROM products WHERE id = ?
	`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// SetProductCantidad writes the inventory count computed inside the
// transaction.
func (t *Tx) SetProductCantidad(id string, cantidad int64) error {
	res, err := t.tx.Exec(`UPDATE products SET cantidad = ? WHERE id = ?`, cantidad, id)
	if err != nil {
		return err
	}
	return requireRow(res, "product", id)
}

// ─── Ledger Writes ──────────────────────────────────────────────────────────

// AppendRecord inserts an immutable ledger row. Records are never updated
// or deleted after this point.
func (t *Tx) AppendRecord(rec *domain.TransactionRecord) error {
	_, err := t.tx.Exec(`
		INSERT INTO transactions
			(id, celular, id_user, nombre_usuario, tipo,
			 id_experiencia, nombre_experiencia, id_producto, nombre_producto,
			 valor, estado, mensaje_error, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Celular, rec.IDUser, rec.NombreUsuario, string(rec.Tipo),
		rec.IDExperiencia, rec.NombreExperiencia, rec.IDProducto, rec.NombreProducto,
		rec.Valor, string(rec.Estado), rec.MensajeError, rec.CreatedAt.UnixMilli())
	return err
}

// ─── Ledger Reads ───────────────────────────────────────────────────────────

const recordColumns = `id, celular, id_user, nombre_usuario, tipo,
	id_experiencia, nombre_experiencia, id_producto, nombre_producto,
	valor, estado, mensaje_error, created_at_ms`

// GetRecord retrieves a committed record by id.
func (db *DB) GetRecord(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM transactions WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	return rec, err
}

// RecordsByPhone returns all records for a phone number, newest first.
// seq breaks created_at ties in reverse insertion order.
func (db *DB) RecordsByPhone(ctx context.Context, celular string) ([]domain.TransactionRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM transactions
		WHERE celular = ?
		ORDER BY created_at_ms DESC, seq DESC
	`, celular)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// AllRecords returns the full ledger, newest first.
func (db *DB) AllRecords(ctx context.Context) ([]domain.TransactionRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM transactions
		ORDER BY created_at_ms DESC, seq DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// CountRecords returns the total number of ledger rows.
func (db *DB) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n)
	return n, err
}

func collectRecords(rows *sql.Rows) ([]domain.TransactionRecord, error) {
	defer rows.Close()
	var recs []domain.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func scanRecord(row rowScanner) (*domain.TransactionRecord, error) {
	var rec domain.TransactionRecord
	var tipo, estado string
	var createdMs int64
	if err := row.Scan(&rec.ID, &rec.Celular, &rec.IDUser, &rec.NombreUsuario, &tipo,
		&rec.IDExperiencia, &rec.NombreExperiencia, &rec.IDProducto, &rec.NombreProducto,
		&rec.Valor, &estado, &rec.MensajeError, &createdMs); err != nil {
		return nil, err
	}
	rec.Tipo = domain.TransactionType(tipo)
	rec.Estado = domain.TxStatus(estado)
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &rec, nil
}
