package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	multierror "github.com/hashicorp/go-multierror"

	"reaction-ledger/metrics"
	"reaction-ledger/models"
	"reaction-ledger/store"
	"reaction-ledger/tally"
	"reaction-ledger/utils"
)

// Flusher drains the reaction tally into the tally store.
type Flusher struct {
	cache   *tally.Cache
	store   store.TallyStore
	clock   utils.Clock
	metrics *metrics.Metrics
}

// NewFlusher creates the job. m may be nil.
func NewFlusher(cache *tally.Cache, s store.TallyStore, clock utils.Clock, m *metrics.Metrics) *Flusher {
	return &Flusher{cache: cache, store: s, clock: clock, metrics: m}
}

// Run drains the cache once and appends one row per entry. Failed inserts are
// reported and dropped; the drained entries are never put back.
func (f *Flusher) Run(ctx context.Context) models.FlushReport {
	start := time.Now()
	entries := f.cache.DrainAll()

	report := models.FlushReport{
		BatchID:   uuid.NewString(),
		StartedAt: f.clock.Now(),
		Drained:   len(entries),
	}

	var errs *multierror.Error
	for _, entry := range entries {
		if err := f.store.Insert(ctx, entry); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		report.Inserted++
	}
	report.Err = errs.ErrorOrNil()
	report.Duration = time.Since(start)

	f.metrics.ObserveFlush(report)
	return report
}
