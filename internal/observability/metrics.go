package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion pipeline.
type Metrics struct {
	FetchAttempts    *prometheus.CounterVec   // labels: source, outcome={success,transport_error,empty}
	TerminalFailures *prometheus.CounterVec   // labels: source, kind={no_response,all_empty}
	FetchDuration    *prometheus.HistogramVec // labels: source

	CacheReads *prometheus.CounterVec // labels: source, result={live,fresh,expired,empty}

	// Dispatch-table parse quality.
	RowsParsed    prometheus.Counter
	RowsSkipped   prometheus.Counter
	DateFallbacks prometheus.Counter

	BatchesPublished prometheus.Counter
}

// NewMetrics creates and registers all ingestion metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchAttempts,
		m.TerminalFailures,
		m.FetchDuration,
		m.CacheReads,
		m.RowsParsed,
		m.RowsSkipped,
		m.DateFallbacks,
		m.BatchesPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "fetch_attempts_total",
			Help:      "Upstream fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		TerminalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "fetch_terminal_failures_total",
			Help:      "Fetch cycles that exhausted the retry budget.",
		}, []string{"source", "kind"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "peru_scanner",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete fetch cycle including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		CacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "cache_reads_total",
			Help:      "Cache reads by source and freshness result.",
		}, []string{"source", "result"}),
		RowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "dispatch_rows_parsed_total",
			Help:      "Dispatch table rows successfully normalized.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "dispatch_rows_skipped_total",
			Help:      "Dispatch table rows dropped for missing required fields.",
		}),
		DateFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "date_parse_fallbacks_total",
			Help:      "Timestamps that could not be parsed and were replaced with the ingestion time.",
		}),
		BatchesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peru_scanner",
			Name:      "batches_published_total",
			Help:      "Fresh batches published to the Kafka sink.",
		}),
	}
}
