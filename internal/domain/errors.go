package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Fatal infrastructure errors. These propagate to the caller and never
// produce a TransactionRecord — no consistent state transition happened.
// Business outcomes (user not found, insufficient balance, ...) are NOT
// errors: they return normally as a Fallido record.

var (
	// Storage errors
	ErrNotFound    = errors.New("entity not found")
	ErrTxConflict  = errors.New("storage transaction conflict not resolved after retries")
	ErrStoreClosed = errors.New("store is closed")

	// Boundary errors
	ErrInvalidInput = errors.New("invalid input")
)

// ─── Business Outcome Reasons ───────────────────────────────────────────────
// Human-readable reasons written into Fallido records. Spanish strings are
// part of the terminal-facing contract and must stay byte-stable.

const (
	ReasonUserNotFound       = "Usuario no encontrado"
	ReasonExperienceNotFound = "Experiencia no encontrada"
	ReasonProductNotFound    = "Producto no encontrado"
	ReasonGalleryNotFound    = "Galería no encontrada"
	ReasonOutOfInventory     = "Producto sin inventario disponible"
	ReasonInvalidProduct     = "Valor del producto inválido"
	ReasonInvalidExperience  = "Valor de la experiencia inválido"
	ReasonInvalidDonation    = "Monto de donación inválido"
)

// ReasonInsufficientBalance formats the insufficient-funds reason with the
// available and required amounts, as terminals display it.
func ReasonInsufficientBalance(disponible, requerido int64) string {
	return fmt.Sprintf("Saldo insuficiente (disponible: %d, requerido: %d)", disponible, requerido)
}
