package ledger

import (
	"context"
	"sort"

	"github.com/pulso-app/pulso/internal/domain"
)

// History reads the immutable record stream. It shares storage with the
// engine but never writes.
type History struct {
	store domain.RecordReader
}

// NewHistory creates a history reader on top of store.
func NewHistory(store domain.RecordReader) *History {
	return &History{store: store}
}

// ByPhone returns every record for a phone number, newest first. Ordering
// does not depend on the store: records are re-sorted by CreatedAt
// descending, with ties keeping the store's own order.
func (h *History) ByPhone(ctx context.Context, celular string) ([]domain.TransactionRecord, error) {
	recs, err := h.store.RecordsByPhone(ctx, celular)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recs)
	return recs, nil
}

// All returns the full ledger, newest first, for administrative review.
func (h *History) All(ctx context.Context) ([]domain.TransactionRecord, error) {
	recs, err := h.store.AllRecords(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recs)
	return recs, nil
}

func sortNewestFirst(recs []domain.TransactionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
