package bomberos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MDCYT/peru-scanner/internal/config"
	"github.com/MDCYT/peru-scanner/internal/domain"
	"github.com/MDCYT/peru-scanner/internal/observability"
	"github.com/MDCYT/peru-scanner/internal/proxy"
)

// browserUserAgent camouflages requests as a desktop browser; the portal
// rejects obvious bot traffic.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	// ErrNoSuccessfulResponse reports that every attempt failed at the
	// transport level: non-2xx status or network error.
	ErrNoSuccessfulResponse = errors.New("dispatch upstream unreachable")

	// ErrAllResponsesEmpty reports that the upstream answered but no
	// attempt yielded any parseable rows.
	ErrAllResponsesEmpty = errors.New("dispatch upstream returned no records")
)

// Client fetches the fire department's live 24-hour dispatch table with a
// bounded retry budget. The first attempt connects directly; later attempts
// rotate through the proxy pool without reusing a proxy within one Fetch.
type Client struct {
	url         string
	referer     string
	timeout     time.Duration
	maxAttempts int
	backoffBase time.Duration
	proxies     *proxy.Pool
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewClient creates a dispatch-table client from service configuration.
func NewClient(cfg *config.Config, proxies *proxy.Pool, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url:         cfg.DispatchURL,
		referer:     cfg.DispatchReferer,
		timeout:     cfg.FetchTimeout,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		proxies:     proxies,
		clock:       clockwork.NewRealClock(),
		logger:      logger,
		metrics:     metrics,
	}
}

// SetClock swaps the time source used for backoff waits. Tests inject a fake
// clock to make the delays observable.
func (c *Client) SetClock(clk clockwork.Clock) {
	c.clock = clk
}

// Fetch retrieves and parses the dispatch table. Transport failures and
// empty results both consume an attempt and wait backoffBase × attempt
// before the next one; the first attempt with at least one record returns
// immediately. After the budget is spent the terminal error distinguishes
// "never got a response" from "every response was empty".
func (c *Client) Fetch(ctx context.Context) ([]domain.EmergencyRecord, error) {
	start := c.clock.Now()
	defer func() {
		c.metrics.FetchDuration.WithLabelValues("dispatch").Observe(c.clock.Since(start).Seconds())
	}()

	cycle := c.proxies.Cycle()
	var lastErr error
	gotResponse := false

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		proxyAddr := ""
		if attempt > 1 {
			if addr, ok := cycle.Next(); ok {
				proxyAddr = addr
			}
		}

		records, stats, err := c.attempt(ctx, proxyAddr)
		if err == nil && len(records) > 0 {
			c.metrics.FetchAttempts.WithLabelValues("dispatch", "success").Inc()
			c.observeStats(stats)
			c.logger.Info("dispatch table fetched",
				"attempt", attempt, "records", len(records), "skipped", stats.Skipped)
			return records, nil
		}

		if err != nil {
			lastErr = err
			c.metrics.FetchAttempts.WithLabelValues("dispatch", "transport_error").Inc()
			c.logger.Warn("dispatch fetch attempt failed",
				"attempt", attempt, "max_attempts", c.maxAttempts, "proxy", proxyAddr, "error", err)
		} else {
			gotResponse = true
			c.metrics.FetchAttempts.WithLabelValues("dispatch", "empty").Inc()
			c.observeStats(stats)
			c.logger.Warn("dispatch fetch attempt returned no records",
				"attempt", attempt, "max_attempts", c.maxAttempts, "proxy", proxyAddr, "skipped", stats.Skipped)
		}

		if attempt < c.maxAttempts {
			if !c.wait(ctx, time.Duration(attempt)*c.backoffBase) {
				return nil, ctx.Err()
			}
		}
	}

	if gotResponse {
		c.metrics.TerminalFailures.WithLabelValues("dispatch", "all_empty").Inc()
		return nil, fmt.Errorf("%w after %d attempts", ErrAllResponsesEmpty, c.maxAttempts)
	}
	c.metrics.TerminalFailures.WithLabelValues("dispatch", "no_response").Inc()
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrNoSuccessfulResponse, c.maxAttempts, lastErr)
}

// attempt runs a single GET, optionally through a proxy, and parses the body.
func (c *Client) attempt(ctx context.Context, proxyAddr string) ([]domain.EmergencyRecord, ParseStats, error) {
	client := &http.Client{Timeout: c.timeout}
	if proxyAddr != "" {
		proxyURL, err := url.Parse("http://" + proxyAddr)
		if err != nil {
			return nil, ParseStats{}, fmt.Errorf("invalid proxy address %q: %w", proxyAddr, err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("create request: %w", err)
	}
	c.setBrowserHeaders(req.Header)

	resp, err := client.Do(req)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("dispatch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ParseStats{}, fmt.Errorf("dispatch upstream status %d", resp.StatusCode)
	}

	return ParseDispatchTable(resp.Body, c.logger)
}

func (c *Client) setBrowserHeaders(h http.Header) {
	h.Set("User-Agent", browserUserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "es-PE,es;q=0.9")
	h.Set("Referer", c.referer)
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
}

func (c *Client) observeStats(stats ParseStats) {
	c.metrics.RowsParsed.Add(float64(stats.Rows))
	c.metrics.RowsSkipped.Add(float64(stats.Skipped))
	c.metrics.DateFallbacks.Add(float64(stats.TimeFallbacks))
}

// wait sleeps for d unless the context ends first.
func (c *Client) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-c.clock.After(d):
		return true
	}
}
