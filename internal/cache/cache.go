// Package cache holds the last successful batch per source and decides when
// it needs refreshing.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MDCYT/peru-scanner/internal/domain"
	"github.com/MDCYT/peru-scanner/internal/observability"
)

// FetchFunc retrieves a fresh batch from an upstream.
type FetchFunc func(ctx context.Context) ([]domain.EmergencyRecord, error)

// Outcome describes where a read's records came from.
type Outcome int

const (
	// OutcomeLive means the records were fetched during this read.
	OutcomeLive Outcome = iota
	// OutcomeFresh means a cached batch younger than the TTL was served.
	OutcomeFresh
	// OutcomeExpired means the refetch failed or came back empty and the
	// stale batch was served as a fallback.
	OutcomeExpired
	// OutcomeEmpty means there is nothing to serve: the fetch failed and
	// no prior batch exists.
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLive:
		return "live"
	case OutcomeFresh:
		return "fresh"
	case OutcomeExpired:
		return "expired"
	default:
		return "empty"
	}
}

// Result is one cache read.
type Result struct {
	Records   []domain.EmergencyRecord
	Outcome   Outcome
	FetchedAt time.Time
	Age       time.Duration

	// Err carries the terminal fetch error behind an Expired or Empty
	// outcome. It is informational: the read itself did not fail.
	Err error
}

// Store is a per-source time-boxed cache. A batch is replaced wholesale on
// each successful refetch and never partially mutated. The mutex doubles as
// single-flight coordination: concurrent readers that observe staleness
// share one upstream fetch instead of each triggering their own.
type Store struct {
	name    string
	ttl     time.Duration
	fetch   FetchFunc
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	// onRefresh, when set, runs after each accepted batch (Kafka publish).
	onRefresh func(context.Context, []domain.EmergencyRecord)

	mu        chan struct{} // acquired by receive, released by send
	records   []domain.EmergencyRecord
	fetchedAt time.Time
}

// New creates a Store for one source. The clock is injected so tests can
// steer freshness deterministically.
func New(name string, ttl time.Duration, fetch FetchFunc, clk clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Store {
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return &Store{
		name:    name,
		ttl:     ttl,
		fetch:   fetch,
		clock:   clk,
		logger:  logger,
		metrics: metrics,
		mu:      mu,
	}
}

// OnRefresh registers a hook invoked with each batch accepted into the
// cache. Must be called before the store is shared between goroutines.
func (s *Store) OnRefresh(fn func(context.Context, []domain.EmergencyRecord)) {
	s.onRefresh = fn
}

// Get returns the cached batch while it is fresh, otherwise refetches. On a
// failed refetch the stale batch is served when one exists; with no prior
// batch the result is empty and carries the fetch error. Get never returns
// an error itself: degradation is encoded in the Outcome.
func (s *Store) Get(ctx context.Context) Result {
	select {
	case <-s.mu:
	case <-ctx.Done():
		return Result{Outcome: OutcomeEmpty, Err: ctx.Err()}
	}
	defer func() { s.mu <- struct{}{} }()

	now := s.clock.Now()
	if !s.fetchedAt.IsZero() && now.Sub(s.fetchedAt) < s.ttl {
		age := now.Sub(s.fetchedAt)
		s.metrics.CacheReads.WithLabelValues(s.name, "fresh").Inc()
		s.logger.Debug("serving cached batch", "source", s.name, "age", age)
		return Result{Records: s.records, Outcome: OutcomeFresh, FetchedAt: s.fetchedAt, Age: age}
	}

	s.logger.Info("cache empty or expired, refetching", "source", s.name)
	records, err := s.fetch(ctx)

	if err == nil && len(records) > 0 {
		s.records = records
		s.fetchedAt = now
		s.metrics.CacheReads.WithLabelValues(s.name, "live").Inc()
		s.logger.Info("cache refreshed", "source", s.name, "records", len(records))
		if s.onRefresh != nil {
			s.onRefresh(ctx, records)
		}
		return Result{Records: records, Outcome: OutcomeLive, FetchedAt: now}
	}

	if len(s.records) > 0 {
		age := now.Sub(s.fetchedAt)
		s.metrics.CacheReads.WithLabelValues(s.name, "expired").Inc()
		s.logger.Warn("refetch failed, serving stale batch",
			"source", s.name, "age", age, "error", err)
		return Result{Records: s.records, Outcome: OutcomeExpired, FetchedAt: s.fetchedAt, Age: age, Err: err}
	}

	s.metrics.CacheReads.WithLabelValues(s.name, "empty").Inc()
	s.logger.Error("no data available", "source", s.name, "error", err)
	return Result{Outcome: OutcomeEmpty, FetchedAt: now, Err: err}
}
