// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "time"

// ─── Transaction Types ──────────────────────────────────────────────────────

// TransactionType is the business reason for a ledger operation.
type TransactionType string

const (
	// TxRecarga credits a user's balance from a priced experience.
	TxRecarga TransactionType = "RECARGA"
	// TxDescuento debits a user's balance for a product purchase and
	// consumes one unit of inventory.
	TxDescuento TransactionType = "DESCUENTO"
	// TxDonacion debits a caller-chosen amount toward a gallery work.
	TxDonacion TransactionType = "DONACION"
)

// TxStatus is the recorded outcome of a ledger operation attempt.
type TxStatus string

const (
	StatusExitoso TxStatus = "Exitoso"
	StatusFallido TxStatus = "Fallido"
)

// ─── Users ──────────────────────────────────────────────────────────────────

// User is a prepaid-balance holder, looked up by phone number or QR code.
// Saldo is an integer currency amount and never goes negative.
type User struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Celular     string    `json:"celular"`
	Saldo       int64     `json:"saldo"`
	Contactos   []string  `json:"contactos"`
	QRCodeValue string    `json:"qrCodeValue"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUserInput is the admin input for creating a user.
type NewUserInput struct {
	Nombre  string `json:"nombre"`
	Celular string `json:"celular"`
	Saldo   int64  `json:"saldo"`
}

// UserPatch is a partial admin update; nil fields are left untouched.
type UserPatch struct {
	Nombre    *string   `json:"nombre,omitempty"`
	Celular   *string   `json:"celular,omitempty"`
	Saldo     *int64    `json:"saldo,omitempty"`
	Contactos *[]string `json:"contactos,omitempty"`
}

// ─── Catalog ────────────────────────────────────────────────────────────────

// Experience is a recharge source: redeeming it credits Valor to a balance.
type Experience struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Valor     int64     `json:"valor"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a debit target with finite inventory.
type Product struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Valor     int64     `json:"valor"`
	Cantidad  int64     `json:"cantidad"`
	CreatedAt time.Time `json:"createdAt"`
}

// GalleryWork is a donation target. Donaciones is a denormalized running
// total maintained for display; the transaction stream is the source of
// truth for donation amounts.
type GalleryWork struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	VideoURL    string    `json:"videoURL,omitempty"`
	Donaciones  int64     `json:"donaciones"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ─── Transaction Records ────────────────────────────────────────────────────

// TransactionRecord is one immutable row in the append-only ledger. Every
// operation attempt commits exactly one record, successful or failed; failed
// attempts carry a human-readable reason in MensajeError.
//
// For DONACION the gallery work is stored in the experience fields, matching
// the historical schema of the transactions collection.
type TransactionRecord struct {
	ID                string          `json:"id"`
	Celular           string          `json:"celular"`
	IDUser            string          `json:"idUser"`
	NombreUsuario     string          `json:"nombreUsuario"`
	Tipo              TransactionType `json:"tipoTransaccion"`
	IDExperiencia     string          `json:"idExperiencia,omitempty"`
	NombreExperiencia string          `json:"nombreExperiencia,omitempty"`
	IDProducto        string          `json:"idProducto,omitempty"`
	NombreProducto    string          `json:"nombreProducto,omitempty"`
	Valor             int64           `json:"valor"`
	Estado            TxStatus        `json:"estado"`
	MensajeError      string          `json:"mensajeError,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Exitoso reports whether the recorded attempt committed its mutation.
func (r *TransactionRecord) Exitoso() bool { return r.Estado == StatusExitoso }

// Fail marks a record under construction as a failed attempt. Once the
// record is committed it is never mutated again.
func (r *TransactionRecord) Fail(reason string) {
	r.Estado = StatusFallido
	r.MensajeError = reason
}
