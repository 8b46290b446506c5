// Command fetch pulls one or both upstream sources once and prints the
// normalized batch as indented JSON. Useful for checking upstream
// availability and schema drift without running the service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MDCYT/peru-scanner/internal/adapter/bomberos"
	"github.com/MDCYT/peru-scanner/internal/adapter/indeci"
	"github.com/MDCYT/peru-scanner/internal/config"
	"github.com/MDCYT/peru-scanner/internal/domain"
	"github.com/MDCYT/peru-scanner/internal/observability"
	"github.com/MDCYT/peru-scanner/internal/proxy"
)

func main() {
	source := flag.String("source", "all", `upstream to pull: "dispatch", "disaster", or "all"`)
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for the fetch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.LogFormat = "text"

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out := map[string][]domain.EmergencyRecord{}
	failed := false

	if *source == "dispatch" || *source == "all" {
		proxies := proxy.Load(cfg.ProxyFile, logger)
		client := bomberos.NewClient(cfg, proxies, metrics, logger)
		records, err := client.Fetch(ctx)
		if err != nil {
			logger.Error("dispatch fetch failed", "error", err)
			failed = true
		} else {
			out["dispatch"] = records
		}
	}

	if *source == "disaster" || *source == "all" {
		client := indeci.NewClient(cfg, metrics, logger)
		records, err := client.Fetch(ctx)
		if err != nil {
			logger.Error("disaster fetch failed", "error", err)
			failed = true
		} else {
			out["disaster"] = records
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}
