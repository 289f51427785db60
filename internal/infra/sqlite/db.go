// Package sqlite implements persistent storage for users, the catalog, and
// the append-only transaction ledger on an embedded SQLite database.
//
// Concurrency model: the database runs in WAL mode with a busy timeout.
// Write transactions start IMMEDIATE so conflicts surface at BEGIN, and
// WithTx retries a bounded number of times before giving up with
// domain.ErrTxConflict. Callers never see a partially committed operation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pulso-app/pulso/internal/domain"
)

// DB wraps the SQLite handle.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database under dir and applies all
// schema migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	path := filepath.Join(dir, "pulso.db")

	dsn := path + "?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db := &DB{db: sqlDB, path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the underlying database handle.
func (db *DB) Close() error { return db.db.Close() }

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Balance holders
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			nombre        TEXT NOT NULL,
			celular       TEXT NOT NULL,
			saldo         INTEGER NOT NULL DEFAULT 0 CHECK (saldo >= 0),
			contactos     TEXT NOT NULL DEFAULT '[]',
			qr_code_value TEXT NOT NULL DEFAULT '',
			created_at_ms INTEGER NOT NULL
		)`,
		// Phone is a lookup key, deliberately NOT unique (see FindUserByPhone)
		`CREATE INDEX IF NOT EXISTS idx_users_celular ON users(celular)`,
		`CREATE INDEX IF NOT EXISTS idx_users_created ON users(created_at_ms)`,

		// Recharge sources
		`CREATE TABLE IF NOT EXISTS experiences (
			id            TEXT PRIMARY KEY,
			nombre        TEXT NOT NULL,
			valor         INTEGER NOT NULL DEFAULT 0 CHECK (valor >= 0),
			created_at_ms INTEGER NOT NULL
		)`,

		// Debit targets with finite inventory
		`CREATE TABLE IF NOT EXISTS products (
			id            TEXT PRIMARY KEY,
			nombre        TEXT NOT NULL,
			valor         INTEGER NOT NULL DEFAULT 0 CHECK (valor >= 0),
			cantidad      INTEGER NOT NULL DEFAULT 0 CHECK (cantidad >= 0),
			created_at_ms INTEGER NOT NULL
		)`,

		// Donation targets with display-only running total
		`CREATE TABLE IF NOT EXISTS gallery_works (
			id            TEXT PRIMARY KEY,
			nombre        TEXT NOT NULL,
			descripcion   TEXT NOT NULL DEFAULT '',
			video_url     TEXT NOT NULL DEFAULT '',
			donaciones    INTEGER NOT NULL DEFAULT 0 CHECK (donaciones >= 0),
			created_at_ms INTEGER NOT NULL,
			updated_at_ms INTEGER NOT NULL
		)`,

		// Append-only ledger. seq breaks created_at ties deterministically.
		`CREATE TABLE IF NOT EXISTS transactions (
			seq                INTEGER PRIMARY KEY AUTOINCREMENT,
			id                 TEXT NOT NULL UNIQUE,
			celular            TEXT NOT NULL,
			id_user            TEXT NOT NULL DEFAULT '',
			nombre_usuario     TEXT NOT NULL DEFAULT '',
			tipo               TEXT NOT NULL,
			id_experiencia     TEXT NOT NULL DEFAULT '',
			nombre_experiencia TEXT NOT NULL DEFAULT '',
			id_producto        TEXT NOT NULL DEFAULT '',
			nombre_producto    TEXT NOT NULL DEFAULT '',
			valor              INTEGER NOT NULL DEFAULT 0,
			estado             TEXT NOT NULL,
			mensaje_error      TEXT NOT NULL DEFAULT '',
			created_at_ms      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_celular ON transactions(celular)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_created ON transactions(created_at_ms DESC)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: %s", err, firstLine(stmt))
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i > 0 {
		return s[:i]
	}
	return s
}

// ─── Atomic Transactions ────────────────────────────────────────────────────

const (
	txAttempts     = 5
	txRetryBackoff = 25 * time.Millisecond
)

// WithTx runs fn inside one IMMEDIATE transaction, retrying on lock
// contention. Implements domain.LedgerStore.
func (db *DB) WithTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	return db.withRetry(ctx, func(sqlTx *sql.Tx) error {
		return fn(&Tx{tx: sqlTx})
	})
}

// withRetry is the shared transaction runner: begin, run, commit, with a
// bounded retry loop around lock contention.
func (db *DB) withRetry(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = db.runTx(ctx, fn)
		if err == nil || !isBusy(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * txRetryBackoff):
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	sqlTx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlTx); err != nil {
		sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

// isBusy reports whether err is SQLite lock contention worth retrying.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked")
}

// Tx is the transaction-scoped view of the store. It implements
// domain.LedgerTx; reads return (nil, nil) when no row matches so the
// engine can record the miss as a business outcome.
type Tx struct {
	tx *sql.Tx
}

// nowMs is the commit-time clock, swappable in tests.
var nowMs = func() int64 { return time.Now().UnixMilli() }
