package models

import "time"

// RecordOutcome is the result of reconciling a single message record.
type RecordOutcome string

const (
	OutcomeUpdated RecordOutcome = "updated"
	OutcomeSkipped RecordOutcome = "skipped" // message no longer exists on the channel
	OutcomeFailed  RecordOutcome = "failed"
)

// ReconcileResult is the per-record outcome of a reconciliation run.
type ReconcileResult struct {
	MessageID string
	Outcome   RecordOutcome
	Counts    ReactionCounts
	Err       error
}

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	Target    Date
	StartedAt time.Time
	Duration  time.Duration
	Scanned   int // records loaded from the store
	Results   []ReconcileResult
	// Err aggregates per-record failures. The run itself still counts as completed.
	Err error
}

// Count returns how many results ended with the given outcome.
func (r ReconcileReport) Count(outcome RecordOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// FlushReport summarizes one tally flush.
type FlushReport struct {
	BatchID   string
	StartedAt time.Time
	Duration  time.Duration
	Drained   int
	Inserted  int
	// Err aggregates failed inserts. Those entries are not re-queued.
	Err error
}

// Failed returns the number of drained entries that could not be persisted.
func (r FlushReport) Failed() int {
	return r.Drained - r.Inserted
}

// JobStatus is the last known state of a scheduled job, persisted to the status file.
type JobStatus struct {
	LastRun  time.Time         `json:"last_run"`
	Duration string            `json:"duration"`
	Summary  map[string]string `json:"summary"`
	Error    string            `json:"error,omitempty"`
}

// StatusFile is the on-disk layout of the job status file.
type StatusFile struct {
	Jobs        map[string]*JobStatus `json:"jobs"`
	LastUpdated time.Time             `json:"last_updated"`
}
