package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/MDCYT/peru-scanner/internal/adapter/bomberos"
	"github.com/MDCYT/peru-scanner/internal/adapter/httpapi"
	"github.com/MDCYT/peru-scanner/internal/adapter/indeci"
	kafkaadapter "github.com/MDCYT/peru-scanner/internal/adapter/kafka"
	"github.com/MDCYT/peru-scanner/internal/adapter/skyline"
	"github.com/MDCYT/peru-scanner/internal/cache"
	"github.com/MDCYT/peru-scanner/internal/config"
	"github.com/MDCYT/peru-scanner/internal/domain"
	"github.com/MDCYT/peru-scanner/internal/observability"
	"github.com/MDCYT/peru-scanner/internal/proxy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clk := clockwork.NewRealClock()

	proxies := proxy.Load(cfg.ProxyFile, logger)
	dispatchClient := bomberos.NewClient(cfg, proxies, metrics, logger)
	disasterClient := indeci.NewClient(cfg, metrics, logger)

	dispatchCache := cache.New("dispatch", cfg.CacheTTL, dispatchClient.Fetch, clk, metrics, logger)
	disasterCache := cache.New("disaster", cfg.CacheTTL, disasterClient.Fetch, clk, metrics, logger)

	// Publish accepted batches when a Kafka sink is configured.
	var publisher *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewWriter(cfg, logger)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		dispatchCache.OnRefresh(publishBatch(publisher, metrics, logger))
		disasterCache.OnRefresh(publishBatch(publisher, metrics, logger))
	} else {
		logger.Info("kafka publishing disabled")
	}

	sessions := skyline.NewSessionClient(cfg.FetchTimeout, logger)
	srv := httpapi.NewServer(cfg.HTTPAddr, dispatchCache, disasterCache, sessions, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// publishBatch adapts the Kafka writer to the cache's refresh hook.
func publishBatch(publisher *kafkaadapter.Writer, metrics *observability.Metrics, logger *slog.Logger) func(context.Context, []domain.EmergencyRecord) {
	return func(ctx context.Context, records []domain.EmergencyRecord) {
		if err := publisher.PublishBatch(ctx, records); err != nil {
			logger.Warn("batch publish failed", "records", len(records), "error", err)
			return
		}
		metrics.BatchesPublished.Inc()
	}
}
