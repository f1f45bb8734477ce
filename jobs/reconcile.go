package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/sourcegraph/conc/pool"

	"reaction-ledger/channel"
	"reaction-ledger/metrics"
	"reaction-ledger/models"
	"reaction-ledger/store"
	"reaction-ledger/utils"
)

// Reactions read from live messages during reconciliation.
const (
	EmojiUpvote = "👍"
	EmojiReport = "👎"
)

// ReconcilerConfig configures the reconciliation job.
type ReconcilerConfig struct {
	ChannelID   string
	DayOffset   int
	Concurrency int
}

// Reconciler copies live vote counts into the logged message records.
type Reconciler struct {
	store   store.MessageStore
	fetcher channel.Fetcher
	clock   utils.Clock
	config  ReconcilerConfig
	metrics *metrics.Metrics
}

// NewReconciler creates the job. m may be nil.
func NewReconciler(s store.MessageStore, f channel.Fetcher, clock utils.Clock, config ReconcilerConfig, m *metrics.Metrics) *Reconciler {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Reconciler{store: s, fetcher: f, clock: clock, config: config, metrics: m}
}

// TargetDate is the post date the next run will reconcile.
func (r *Reconciler) TargetDate() models.Date {
	return TargetDate(models.DateOf(r.clock.Now()), r.config.DayOffset)
}

// Run reconciles every record posted on the target date. Per-record failures are
// collected in the report and never stop the other records; the returned error is
// only set when the records could not be loaded at all.
func (r *Reconciler) Run(ctx context.Context) (models.ReconcileReport, error) {
	start := time.Now()
	report := models.ReconcileReport{
		Target:    r.TargetDate(),
		StartedAt: r.clock.Now(),
	}

	records, err := r.store.Select(ctx)
	if err != nil {
		report.Duration = time.Since(start)
		return report, fmt.Errorf("failed to load message records: %w", err)
	}
	report.Scanned = len(records)

	due := Due(records, report.Target)
	report.Results = make([]models.ReconcileResult, len(due))

	p := pool.New().WithMaxGoroutines(r.config.Concurrency)
	for i, rec := range due {
		p.Go(func() {
			report.Results[i] = r.reconcileOne(ctx, rec)
		})
	}
	p.Wait()

	var errs *multierror.Error
	for _, res := range report.Results {
		if res.Outcome == models.OutcomeFailed {
			errs = multierror.Append(errs, res.Err)
		}
	}
	report.Err = errs.ErrorOrNil()
	report.Duration = time.Since(start)

	r.metrics.ObserveReconcile(report)
	return report, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, rec models.MessageRecord) models.ReconcileResult {
	res := models.ReconcileResult{MessageID: rec.ID}

	live, err := r.fetcher.FetchMessage(ctx, r.config.ChannelID, rec.ID)
	if errors.Is(err, channel.ErrMessageGone) {
		res.Outcome = models.OutcomeSkipped
		return res
	}
	if err != nil {
		res.Outcome = models.OutcomeFailed
		res.Err = err
		return res
	}

	res.Counts = models.ReactionCounts{
		Upvotes: live.Count(EmojiUpvote),
		Reports: live.Count(EmojiReport),
	}
	if err := r.store.UpdateByID(ctx, rec.ID, res.Counts); err != nil {
		res.Outcome = models.OutcomeFailed
		res.Err = err
		return res
	}

	res.Outcome = models.OutcomeUpdated
	return res
}
