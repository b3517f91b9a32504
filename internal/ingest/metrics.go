package ingest

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder observes per-stage outcomes of the load pipeline. Kinds
// are passed as plain strings so recorders never depend on entity types.
type MetricsRecorder interface {
	ObserveStage(kind string, success bool, duration time.Duration)
	AddRows(kind, table string, n int)
	AddSkipped(kind, reason string, n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveStage(string, bool, time.Duration) {}
func (noopMetrics) AddRows(string, string, int)              {}
func (noopMetrics) AddSkipped(string, string, int)           {}

var expvarSeq uint64

// ExpvarMetricsRecorder publishes aggregate stage timings, row counts, and
// skipped-reference counters via expvar, for deployments that prefer
// process-local metrics without an external scrape target.
type ExpvarMetricsRecorder struct {
	name    string
	mu      sync.Mutex
	seconds map[string]float64
	rows    map[string]int64
	skipped map[string]int64
}

// ExpvarMetricsSnapshot is the read-only view rendered through expvar.
type ExpvarMetricsSnapshot struct {
	StageSeconds map[string]float64 `json:"stage_seconds_total"`
	RowsWritten  map[string]int64   `json:"rows_written_total"`
	Skipped      map[string]int64   `json:"skipped_refs_total"`
	RecordedAt   time.Time          `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder published
// under name. An empty name gets a generated unique identifier.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("biota_load_metrics_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarMetricsRecorder{
		name:    name,
		seconds: make(map[string]float64),
		rows:    make(map[string]int64),
		skipped: make(map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any { return rec.Snapshot() }))
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarMetricsRecorder) Name() string { return r.name }

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := ExpvarMetricsSnapshot{
		StageSeconds: make(map[string]float64, len(r.seconds)),
		RowsWritten:  make(map[string]int64, len(r.rows)),
		Skipped:      make(map[string]int64, len(r.skipped)),
		RecordedAt:   time.Now().UTC(),
	}
	for k, v := range r.seconds {
		snap.StageSeconds[k] = v
	}
	for k, v := range r.rows {
		snap.RowsWritten[k] = v
	}
	for k, v := range r.skipped {
		snap.Skipped[k] = v
	}
	return snap
}

// ObserveStage accumulates stage wall time keyed by kind and outcome.
func (r *ExpvarMetricsRecorder) ObserveStage(kind string, success bool, duration time.Duration) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	r.mu.Lock()
	r.seconds[kind+":"+outcome] += duration.Seconds()
	r.mu.Unlock()
}

// AddRows accumulates rows written per kind and table.
func (r *ExpvarMetricsRecorder) AddRows(kind, table string, n int) {
	r.mu.Lock()
	r.rows[kind+":"+table] += int64(n)
	r.mu.Unlock()
}

// AddSkipped accumulates silently skipped references per kind and reason.
func (r *ExpvarMetricsRecorder) AddSkipped(kind, reason string, n int) {
	r.mu.Lock()
	r.skipped[kind+":"+reason] += int64(n)
	r.mu.Unlock()
}

// PrometheusMetricsRecorder exposes the same observations as prometheus
// collectors for scraped deployments.
type PrometheusMetricsRecorder struct {
	stageDuration *prometheus.HistogramVec
	rowsWritten   *prometheus.CounterVec
	skippedRefs   *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder builds the collectors and registers them with
// reg (prometheus.DefaultRegisterer when nil).
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "biota",
			Subsystem: "load",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per entity-kind load stage.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
		}, []string{"kind", "outcome"}),
		rowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biota",
			Subsystem: "load",
			Name:      "rows_written_total",
			Help:      "Rows handed to the bulk persistence gateway.",
		}, []string{"kind", "table"}),
		skippedRefs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biota",
			Subsystem: "load",
			Name:      "skipped_refs_total",
			Help:      "Cross-references dropped because their target was not loaded.",
		}, []string{"kind", "reason"}),
	}
	for _, c := range []prometheus.Collector{rec.stageDuration, rec.rowsWritten, rec.skippedRefs} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return rec, nil
}

// ObserveStage records stage wall time.
func (r *PrometheusMetricsRecorder) ObserveStage(kind string, success bool, duration time.Duration) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	r.stageDuration.WithLabelValues(kind, outcome).Observe(duration.Seconds())
}

// AddRows records rows written.
func (r *PrometheusMetricsRecorder) AddRows(kind, table string, n int) {
	r.rowsWritten.WithLabelValues(kind, table).Add(float64(n))
}

// AddSkipped records dropped cross-references.
func (r *PrometheusMetricsRecorder) AddSkipped(kind, reason string, n int) {
	r.skippedRefs.WithLabelValues(kind, reason).Add(float64(n))
}
