package domain

import "context"

// ─── Storage Interfaces ─────────────────────────────────────────────────────
// These interfaces define the boundary between the ledger engine and the
// storage layer. Infrastructure implements them; the engine depends on them.

// LedgerStore is the storage surface the ledger engine writes through.
type LedgerStore interface {
	// FindUserByPhone resolves a phone number to a user by scanning the
	// users collection. Phone numbers are not enforced unique; the first
	// match in creation order wins. Returns (nil, nil) when no user matches.
	FindUserByPhone(ctx context.Context, celular string) (*User, error)

	// WithTx runs fn inside one atomic storage transaction. The storage
	// layer retries transparently on write conflict; if retries are
	// exhausted the whole operation fails with ErrTxConflict and nothing
	// is committed. A non-nil error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(tx LedgerTx) error) error

	// GetRecord re-reads a committed record by id, reflecting
	// storage-assigned fields.
	GetRecord(ctx context.Context, id string) (*TransactionRecord, error)
}

// LedgerTx is the transaction-scoped view the engine mutates through. All
// reads and writes happen against the same serializable snapshot; balance
// and inventory are never touched outside of it.
type LedgerTx interface {
	UserByID(id string) (*User, error)
	ExperienceByID(id string) (*Experience, error)
	ProductByID(id string) (*Product, error)

	SetUserSaldo(id string, saldo int64) error
	SetProductCantidad(id string, cantidad int64) error
	AppendRecord(rec *TransactionRecord) error
}

// RecordReader is the read-only history surface. It shares storage with the
// engine but never mutates.
type RecordReader interface {
	// RecordsByPhone returns all records for a phone number, newest first.
	RecordsByPhone(ctx context.Context, celular string) ([]TransactionRecord, error)
	// AllRecords returns every record, newest first.
	AllRecords(ctx context.Context) ([]TransactionRecord, error)
}
