package jobs

import (
	"fmt"
	"time"

	"reaction-ledger/models"
)

// SummarizeReconcile renders a one-line operator summary.
func SummarizeReconcile(r models.ReconcileReport) string {
	s := fmt.Sprintf("target %s: %d records scanned, %d updated, %d skipped (gone), %d failed in %s",
		r.Target, r.Scanned,
		r.Count(models.OutcomeUpdated), r.Count(models.OutcomeSkipped), r.Count(models.OutcomeFailed),
		r.Duration.Round(time.Millisecond))
	if r.Err != nil {
		s += "\n" + r.Err.Error()
	}
	return s
}

// SummarizeFlush renders a one-line operator summary.
func SummarizeFlush(r models.FlushReport) string {
	s := fmt.Sprintf("batch %s: %d entries drained, %d written, %d lost in %s",
		r.BatchID, r.Drained, r.Inserted, r.Failed(), r.Duration.Round(time.Millisecond))
	if r.Err != nil {
		s += "\n" + r.Err.Error()
	}
	return s
}
