package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pulso-app/pulso/internal/domain"
)

// ─── User Operations ────────────────────────────────────────────────────────

// CreateUser inserts a user row. ID, QR value and CreatedAt must already be
// assigned by the caller.
func (db *DB) CreateUser(ctx context.Context, u *domain.User) error {
	contactos, err := json.Marshal(emptyIfNil(u.Contactos))
	if err != nil {
		return err
	}
	_, err = db.db.ExecContext(ctx, `
		INSERT INTO users (id, nombre, celular, saldo, contactos, qr_code_value, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Nombre, u.Celular, u.Saldo, string(contactos), u.QRCodeValue, u.CreatedAt.UnixMilli())
	return err
}

// CreateUsersBulk inserts all users in one transaction: either every row
// lands or none does.
func (db *DB) CreateUsersBulk(ctx context.Context, users []domain.User) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range users {
		u := &users[i]
		contactos, err := json.Marshal(emptyIfNil(u.Contactos))
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, nombre, celular, saldo, contactos, qr_code_value, created_at_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, u.ID, u.Nombre, u.Celular, u.Saldo, string(contactos), u.QRCodeValue, u.CreatedAt.UnixMilli()); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetUser retrieves a user by id. Returns domain.ErrNotFound when missing.
func (db *DB) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, nombre, celular, saldo, contactos, qr_code_value, created_at_ms
		FROM users WHERE id = ?
	`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, err
}

// FindUserByPhone resolves a phone number to a user. Phone numbers are not
// enforced unique; the scan is pinned to creation order so the first match
// is deterministic. Returns (nil, nil) when no user matches.
func (db *DB) FindUserByPhone(ctx context.Context, celular string) (*domain.User, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, nombre, celular, saldo, contactos, qr_code_value, created_at_ms
		FROM users WHERE celular = ?
		ORDER BY created_at_ms ASC, rowid ASC
		LIMIT 1
	`, celular)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// ListUsers returns all users, newest first.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, nombre, celular, saldo, contactos, qr_code_value, created_at_ms
		FROM users ORDER BY created_at_ms DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update. Balance changes through this path are
// for admin correction only; the ledger engine mutates saldo exclusively
// inside WithTx.
func (db *DB) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error {
	set := ""
	args := []interface{}{}
	appendSet := func(col string, v interface{}) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}
	if patch.Nombre != nil {
		appendSet("nombre", *patch.Nombre)
	}
	if patch.Celular != nil {
		appendSet("celular", *patch.Celular)
	}
	if patch.Saldo != nil {
		appendSet("saldo", *patch.Saldo)
	}
	if patch.Contactos != nil {
		contactos, err := json.Marshal(emptyIfNil(*patch.Contactos))
		if err != nil {
			return err
		}
		appendSet("contactos", string(contactos))
	}
	if set == "" {
		return nil
	}
	args = append(args, id)
	res, err := db.db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteUser removes a user row. Deleting is idempotent.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	_, err := db.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// ─── Tx-Scoped User Operations ──────────────────────────────────────────────

// UserByID re-reads a user inside the transaction.
func (t *Tx) UserByID(id string) (*domain.User, error) {
	row := t.tx.QueryRow(`
		SELECT id, nombre, celular, saldo, contactos, qr_code_value, created_at_ms
		FROM users WHERE id = ?
	`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// SetUserSaldo writes the new balance computed inside the transaction.
func (t *Tx) SetUserSaldo(id string, saldo int64) error {
	res, err := t.tx.Exec(`UPDATE users SET saldo = ? WHERE id = ?`, saldo, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ─── Scan Helpers ───────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var contactos string
	var createdMs int64
	if err := row.Scan(&u.ID, &u.Nombre, &u.Celular, &u.Saldo, &contactos, &u.QRCodeValue, &createdMs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(contactos), &u.Contactos); err != nil {
		return nil, fmt.Errorf("decode contactos for user %s: %w", u.ID, err)
	}
	u.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &u, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
