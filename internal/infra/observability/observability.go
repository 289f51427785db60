// Package observability exposes Prometheus metrics for the ledger service.
// Metrics are package-level and registered on the default registry; the API
// serves them on /metrics when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// LedgerOperations counts operation attempts by type (RECARGA, DESCUENTO,
// DONACION) and recorded outcome (Exitoso, Fallido).
var LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulso",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Ledger operation attempts by transaction type and recorded outcome.",
}, []string{"type", "status"})

// LedgerFatalErrors counts attempts that failed at the infrastructure level
// and therefore committed no record.
var LedgerFatalErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulso",
	Subsystem: "ledger",
	Name:      "fatal_errors_total",
	Help:      "Ledger attempts aborted by storage faults (no record committed).",
})

// LedgerCommitSeconds observes end-to-end operation latency, phone
// resolution through post-commit re-read.
var LedgerCommitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "pulso",
	Subsystem: "ledger",
	Name:      "commit_seconds",
	Help:      "Ledger operation latency in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// ─── Gallery Metrics ────────────────────────────────────────────────────────

// DonationIncrements counts successful bumps of a gallery work's
// display-only running total.
var DonationIncrements = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulso",
	Subsystem: "gallery",
	Name:      "donation_increments_total",
	Help:      "Successful donation running-total increments.",
})
