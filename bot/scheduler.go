package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"reaction-ledger/database"
	"reaction-ledger/jobs"
	"reaction-ledger/models"
	"reaction-ledger/utils"
)

// ReconcileJob is satisfied by *jobs.Reconciler.
type ReconcileJob interface {
	Run(ctx context.Context) (models.ReconcileReport, error)
}

// FlushJob is satisfied by *jobs.Flusher.
type FlushJob interface {
	Run(ctx context.Context) models.FlushReport
}

// ScheduleConfig holds the cron specs, including the seconds field.
type ScheduleConfig struct {
	Reconcile string
	Flush     string
	Location  *time.Location
}

// Scheduler fires the reconciliation and flush jobs. Runs of the same job are
// not serialized: a run that outlasts its interval overlaps the next one.
type Scheduler struct {
	cron       *cron.Cron
	reconciler ReconcileJob
	flusher    FlushJob
	status     *database.StatusManager

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewScheduler registers both jobs. status may be nil.
func NewScheduler(config ScheduleConfig, r ReconcileJob, f FlushJob, status *database.StatusManager) (*Scheduler, error) {
	loc := config.Location
	if loc == nil {
		loc = time.Local
	}
	logger := cron.PrintfLogger(log.Default())
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger)),
		),
		reconciler: r,
		flusher:    f,
		status:     status,
		ctx:        ctx,
		cancel:     cancel,
	}

	if _, err := s.cron.AddFunc(config.Reconcile, func() { s.track(func(ctx context.Context) { s.RunReconcile(ctx) }) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", config.Reconcile, err)
	}
	if _, err := s.cron.AddFunc(config.Flush, func() { s.track(func(ctx context.Context) { s.RunFlush(ctx) }) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid flush schedule %q: %w", config.Flush, err)
	}
	return s, nil
}

// track runs fn inline with the scheduler context. It is a no-op once Stop began.
func (s *Scheduler) track(fn func(ctx context.Context)) {
	if !s.add() {
		return
	}
	defer s.wg.Done()
	fn(s.ctx)
}

// Go runs fn in the background with the scheduler context, so Stop cancels and
// waits for it. It reports false once Stop began.
func (s *Scheduler) Go(fn func(ctx context.Context)) bool {
	if !s.add() {
		return false
	}
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
	return true
}

func (s *Scheduler) add() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	return true
}

// Start begins firing jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		log.Printf("Scheduled job %d, next run at %s", e.ID, e.Next.Format(time.RFC3339))
	}
}

// Stop prevents new runs, cancels the running ones and waits for them to return.
// The context is cancelled first: cron's Stop only completes once running jobs return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

// RunReconcile runs reconciliation once and reports the outcome.
func (s *Scheduler) RunReconcile(ctx context.Context) (models.ReconcileReport, error) {
	log.Println("Running reaction reconciliation...")
	report, err := s.reconciler.Run(ctx)
	if err != nil {
		report.Err = err
		utils.Error("Scheduler", "Reconcile", err.Error())
	} else if report.Err != nil {
		utils.Warn("Scheduler", "Reconcile", jobs.SummarizeReconcile(report))
	} else {
		utils.Info("Scheduler", "Reconcile", jobs.SummarizeReconcile(report))
	}

	if s.status != nil {
		s.status.RecordReconcile(report)
		s.save()
	}
	return report, err
}

// RunFlush flushes the tally once and reports the outcome.
func (s *Scheduler) RunFlush(ctx context.Context) models.FlushReport {
	log.Println("Flushing reaction tally...")
	report := s.flusher.Run(ctx)
	if report.Err != nil {
		utils.Warn("Scheduler", "Flush", jobs.SummarizeFlush(report))
	} else {
		utils.Info("Scheduler", "Flush", jobs.SummarizeFlush(report))
	}

	if s.status != nil {
		s.status.RecordFlush(report)
		s.save()
	}
	return report
}

func (s *Scheduler) save() {
	if err := s.status.Save(); err != nil {
		log.Printf("Failed to save job status: %v", err)
	}
}
