// Package metrics counts what aggregation passes do.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pass counters. Each instance owns its registry, so
// several can coexist in one process (and in tests).
//
// Metrics:
//   - tasktimeline_passes_total - completed passes
//   - tasktimeline_passes_dropped_total - refresh requests dropped while a pass ran
//   - tasktimeline_pass_duration_seconds - pass wall time
//   - tasktimeline_documents_scanned_total - documents scanned
//   - tasktimeline_document_errors_total - documents whose scan failed
//   - tasktimeline_matches_total - raw pattern matches
//   - tasktimeline_records_total - dated task records produced
//   - tasktimeline_dates_discarded_total - matches dropped for an unparseable date
//   - tasktimeline_pattern_errors_total - passes that ran on a stale or missing pattern
type Metrics struct {
	registry *prometheus.Registry

	PassesTotal      prometheus.Counter
	PassesDropped    prometheus.Counter
	PassDuration     prometheus.Histogram
	DocumentsScanned prometheus.Counter
	DocumentErrors   prometheus.Counter
	Matches          prometheus.Counter
	Records          prometheus.Counter
	DatesDiscarded   prometheus.Counter
	PatternErrors    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PassesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_passes_total",
			Help: "Total number of completed aggregation passes",
		}),
		PassesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_passes_dropped_total",
			Help: "Total number of refresh requests dropped because a pass was in flight",
		}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tasktimeline_pass_duration_seconds",
			Help:    "Duration of aggregation passes in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		DocumentsScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_documents_scanned_total",
			Help: "Total number of documents scanned",
		}),
		DocumentErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_document_errors_total",
			Help: "Total number of documents whose scan failed",
		}),
		Matches: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_matches_total",
			Help: "Total number of raw pattern matches",
		}),
		Records: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_records_total",
			Help: "Total number of dated task records produced",
		}),
		DatesDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_dates_discarded_total",
			Help: "Total number of matches discarded for an unparseable date or empty tag",
		}),
		PatternErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasktimeline_pattern_errors_total",
			Help: "Total number of passes whose configured pattern failed to compile",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PassObservation is what one pass reports.
type PassObservation struct {
	Documents      int
	DocumentErrors int
	Matches        int
	Records        int
	Discarded      int
	PatternError   bool
	Duration       time.Duration
}

// ObservePass records one finished pass. A nil receiver is a no-op.
func (m *Metrics) ObservePass(o PassObservation) {
	if m == nil {
		return
	}
	m.PassesTotal.Inc()
	m.PassDuration.Observe(o.Duration.Seconds())
	m.DocumentsScanned.Add(float64(o.Documents))
	m.DocumentErrors.Add(float64(o.DocumentErrors))
	m.Matches.Add(float64(o.Matches))
	m.Records.Add(float64(o.Records))
	m.DatesDiscarded.Add(float64(o.Discarded))
	if o.PatternError {
		m.PatternErrors.Inc()
	}
}

// ObserveDropped records a refresh request that was not run. A nil receiver is a no-op.
func (m *Metrics) ObserveDropped() {
	if m == nil {
		return
	}
	m.PassesDropped.Inc()
}

// WriteTextfile writes the current values in the Prometheus text format,
// for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
