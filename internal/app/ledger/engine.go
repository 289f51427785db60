// Package ledger implements the transactional balance engine: recharges,
// purchases, and donations, each committed as one atomic state transition
// plus one immutable audit record.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulso-app/pulso/internal/domain"
	"github.com/pulso-app/pulso/internal/infra/observability"
)

// Engine executes ledger operations. Every call is one attempt and commits
// exactly one TransactionRecord — business failures (user not found,
// insufficient balance, ...) come back as a Fallido record with a nil
// error; only infrastructure faults return a non-nil error, and those never
// leave a record behind.
//
// Concurrent terminals may operate on the same user or catalog item;
// correctness is delegated to the storage transaction, which serializes
// read-check-write per affected row and retries on conflict.
type Engine struct {
	store domain.LedgerStore
	now   func() time.Time
}

// New creates a ledger engine on top of store.
func New(store domain.LedgerStore) *Engine {
	return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Recharge credits the experience's price to the user's balance.
func (e *Engine) Recharge(ctx context.Context, celular, idExperiencia string) (*domain.TransactionRecord, error) {
	return e.post(ctx, operation{
		tipo:     domain.TxRecarga,
		celular:  celular,
		entityID: idExperiencia,
	})
}

// Debit charges the product's price to the user's balance and consumes one
// unit of inventory.
func (e *Engine) Debit(ctx context.Context, celular, idProducto string) (*domain.TransactionRecord, error) {
	return e.post(ctx, operation{
		tipo:     domain.TxDescuento,
		celular:  celular,
		entityID: idProducto,
	})
}

// Donate debits a caller-chosen amount from the user's balance toward a
// gallery work. The work's running total is NOT updated here: after a
// successful Donate the caller bumps the display counter via the catalog
// service, and the committed record remains the source of truth.
func (e *Engine) Donate(ctx context.Context, celular string, monto int64, idObra, nombreObra string) (*domain.TransactionRecord, error) {
	return e.post(ctx, operation{
		tipo:       domain.TxDonacion,
		celular:    celular,
		entityID:   idObra,
		monto:      monto,
		nombreObra: nombreObra,
	})
}

// ─── Shared State Transition ────────────────────────────────────────────────

// operation is the variant describing one attempt: the balance-delta sign
// and the extra preconditions follow from tipo.
type operation struct {
	tipo       domain.TransactionType
	celular    string
	entityID   string
	monto      int64  // DONACION only, caller-supplied
	nombreObra string // DONACION only, display name of the work
}

// post is the single control-flow all three operations share:
// resolve user by phone → atomic check-and-write → commit record → re-read.
func (e *Engine) post(ctx context.Context, op operation) (*domain.TransactionRecord, error) {
	start := time.Now()

	user, err := e.store.FindUserByPhone(ctx, op.celular)
	if err != nil {
		observability.LedgerFatalErrors.Inc()
		return nil, fmt.Errorf("resolve user by phone: %w", err)
	}

	rec := &domain.TransactionRecord{
		ID:      uuid.NewString(),
		Celular: op.celular,
		Tipo:    op.tipo,
	}
	op.stampEntity(rec)

	if user == nil {
		rec.Fail(domain.ReasonUserNotFound)
		rec.Valor = op.recordedAmountOnUserMiss()
	} else {
		rec.Celular = user.Celular
		rec.IDUser = user.ID
		rec.NombreUsuario = user.Nombre
	}

	err = e.store.WithTx(ctx, func(tx domain.LedgerTx) error {
		if user != nil {
			if err := e.apply(tx, op, user.ID, rec); err != nil {
				return err
			}
		}
		rec.CreatedAt = e.now()
		return tx.AppendRecord(rec)
	})
	if err != nil {
		observability.LedgerFatalErrors.Inc()
		return nil, fmt.Errorf("%s: %w", op.tipo, err)
	}

	committed, err := e.store.GetRecord(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("re-read committed record: %w", err)
	}

	observability.LedgerOperations.WithLabelValues(string(op.tipo), string(committed.Estado)).Inc()
	observability.LedgerCommitSeconds.Observe(time.Since(start).Seconds())
	return committed, nil
}

// apply re-reads the user and the target entity inside the transaction,
// validates the preconditions for op.tipo, and on success writes the balance
// (and inventory) mutation. Business failures only mark rec Fallido; a
// non-nil return is reserved for storage faults and rolls everything back.
func (e *Engine) apply(tx domain.LedgerTx, op operation, userID string, rec *domain.TransactionRecord) error {
	u, err := tx.UserByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		// Deleted between the phone scan and the transaction.
		rec.Fail(domain.ReasonUserNotFound)
		rec.Valor = op.recordedAmountOnUserMiss()
		return nil
	}

	switch op.tipo {
	case domain.TxRecarga:
		exp, err := tx.ExperienceByID(op.entityID)
		if err != nil {
			return err
		}
		if exp == nil {
			rec.Fail(domain.ReasonExperienceNotFound)
			return nil
		}
		rec.NombreExperiencia = exp.Nombre
		amount := exp.Valor
		if amount <= 0 {
			rec.Fail(domain.ReasonInvalidExperience)
			return nil
		}
		rec.Valor = amount
		if err := tx.SetUserSaldo(u.ID, u.Saldo+amount); err != nil {
			return err
		}

	case domain.TxDescuento:
		prod, err := tx.ProductByID(op.entityID)
		if err != nil {
			return err
		}
		if prod == nil {
			rec.Fail(domain.ReasonProductNotFound)
			return nil
		}
		rec.NombreProducto = prod.Nombre
		amount := prod.Valor
		if amount > 0 {
			rec.Valor = amount
		}
		if prod.Cantidad < 1 {
			rec.Fail(domain.ReasonOutOfInventory)
			return nil
		}
		if amount <= 0 {
			rec.Fail(domain.ReasonInvalidProduct)
			return nil
		}
		if u.Saldo < amount {
			rec.Fail(domain.ReasonInsufficientBalance(u.Saldo, amount))
			return nil
		}
		if err := tx.SetUserSaldo(u.ID, u.Saldo-amount); err != nil {
			return err
		}
		if err := tx.SetProductCantidad(prod.ID, prod.Cantidad-1); err != nil {
			return err
		}

	case domain.TxDonacion:
		amount := op.monto
		if amount > 0 {
			rec.Valor = amount
		}
		if amount <= 0 {
			rec.Fail(domain.ReasonInvalidDonation)
			return nil
		}
		if u.Saldo < amount {
			rec.Fail(domain.ReasonInsufficientBalance(u.Saldo, amount))
			return nil
		}
		if err := tx.SetUserSaldo(u.ID, u.Saldo-amount); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidInput, op.tipo)
	}

	if rec.Estado == "" {
		rec.Estado = domain.StatusExitoso
	}
	return nil
}

// stampEntity writes the target-entity id fields onto the record. Donations
// store the gallery work in the experience columns (historical schema).
func (op operation) stampEntity(rec *domain.TransactionRecord) {
	switch op.tipo {
	case domain.TxRecarga:
		rec.IDExperiencia = op.entityID
	case domain.TxDescuento:
		rec.IDProducto = op.entityID
	case domain.TxDonacion:
		rec.IDExperiencia = op.entityID
		rec.NombreExperiencia = op.nombreObra
	}
}

// recordedAmountOnUserMiss is the valor written when the user cannot be
// resolved: donations keep the attempted amount, priced operations record 0
// because no price was ever read.
func (op operation) recordedAmountOnUserMiss() int64 {
	if op.tipo == domain.TxDonacion && op.monto > 0 {
		return op.monto
	}
	return 0
}
