// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"reaction-ledger/models"
)

const namespace = "reaction_ledger"

// Metrics holds every collector the ledger reports.
type Metrics struct {
	EventsTotal        *prometheus.CounterVec
	RecordedTotal      *prometheus.CounterVec
	ReconcileTotal     *prometheus.CounterVec
	FlushRowsTotal     *prometheus.CounterVec
	JobDurationSeconds *prometheus.HistogramVec
	PendingTallyKeys   prometheus.GaugeFunc
}

// New builds the collectors and registers them with reg. pending is sampled at
// scrape time for the pending tally gauge.
func New(reg prometheus.Registerer, pending func() int) (*Metrics, error) {
	m := &Metrics{
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Gateway events received, by kind and whether they were in scope.",
		}, []string{"kind", "result"}),
		RecordedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_recorded_total",
			Help:      "Message store appends, by result.",
		}, []string{"result"}),
		ReconcileTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_records_total",
			Help:      "Reconciled message records, by outcome.",
		}, []string{"outcome"}),
		FlushRowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_rows_total",
			Help:      "Tally rows written by the flush job, by result.",
		}, []string{"result"}),
		JobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of scheduled jobs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"job"}),
		PendingTallyKeys: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_tally_keys",
			Help:      "Distinct (user, emoji) keys waiting for the next flush.",
		}, func() float64 { return float64(pending()) }),
	}

	var err error
	for _, c := range []prometheus.Collector{
		m.EventsTotal, m.RecordedTotal, m.ReconcileTotal, m.FlushRowsTotal, m.JobDurationSeconds, m.PendingTallyKeys,
	} {
		if registerErr := reg.Register(c); registerErr != nil {
			err = multierror.Append(err, registerErr)
		}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Event counts one gateway event.
func (m *Metrics) Event(kind string, inScope bool) {
	if m == nil {
		return
	}
	result := "ignored"
	if inScope {
		result = "accepted"
	}
	m.EventsTotal.WithLabelValues(kind, result).Inc()
}

// Recorded counts one message store append.
func (m *Metrics) Recorded(err error) {
	if m == nil {
		return
	}
	m.RecordedTotal.WithLabelValues(resultLabel(err)).Inc()
}

// ObserveReconcile records the outcome of a reconciliation run.
func (m *Metrics) ObserveReconcile(r models.ReconcileReport) {
	if m == nil {
		return
	}
	for _, res := range r.Results {
		m.ReconcileTotal.WithLabelValues(string(res.Outcome)).Inc()
	}
	m.observeDuration("reconcile", r.Duration)
}

// ObserveFlush records the outcome of a tally flush.
func (m *Metrics) ObserveFlush(r models.FlushReport) {
	if m == nil {
		return
	}
	m.FlushRowsTotal.WithLabelValues("success").Add(float64(r.Inserted))
	m.FlushRowsTotal.WithLabelValues("failure").Add(float64(r.Failed()))
	m.observeDuration("flush", r.Duration)
}

func (m *Metrics) observeDuration(job string, d time.Duration) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(d.Seconds())
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
