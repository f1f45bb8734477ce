// Package jobs holds the message recorder and the two scheduled jobs:
// reconciliation of logged messages and flushing of the reaction tally.
package jobs

import (
	"context"
	"fmt"

	"reaction-ledger/metrics"
	"reaction-ledger/models"
	"reaction-ledger/store"
)

// Recorder appends qualifying posts to the message store.
type Recorder struct {
	store   store.MessageStore
	metrics *metrics.Metrics
}

// NewRecorder creates a recorder. m may be nil.
func NewRecorder(s store.MessageStore, m *metrics.Metrics) *Recorder {
	return &Recorder{store: s, metrics: m}
}

// Record writes one record. Failures are returned, not retried or buffered.
func (r *Recorder) Record(ctx context.Context, rec models.MessageRecord) error {
	err := r.store.Insert(ctx, rec)
	r.metrics.Recorded(err)
	if err != nil {
		return fmt.Errorf("failed to record message %s: %w", rec.ID, err)
	}
	return nil
}
