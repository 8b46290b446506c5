package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dispatch-table upstream (fire department portal).
	DispatchURL     string
	DispatchReferer string

	// Geo-feature upstream (INDECI SINPAD feature service).
	DisasterURL     string
	DisasterReferer string

	FetchTimeout time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	CacheTTL     time.Duration
	ProxyFile    string

	// Optional Kafka sink: fresh batches are published when brokers are set.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}
	backoffBase, err := parseDuration("FETCH_BACKOFF_BASE", time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := parseInt("FETCH_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DispatchURL:     envOrDefault("DISPATCH_URL", "https://sgonorte.bomberosperu.gob.pe/24horas"),
		DispatchReferer: envOrDefault("DISPATCH_REFERER", "https://sgonorte.bomberosperu.gob.pe/"),
		DisasterURL:     envOrDefault("DISASTER_URL", "https://geosinpad.indeci.gob.pe/indeci/rest/services/Emergencias/EMERGENCIAS_SINPAD/FeatureServer/0/query"),
		DisasterReferer: envOrDefault("DISASTER_REFERER", "https://geosinpad.indeci.gob.pe"),

		FetchTimeout: fetchTimeout,
		MaxAttempts:  maxAttempts,
		BackoffBase:  backoffBase,
		CacheTTL:     cacheTTL,
		ProxyFile:    envOrDefault("PROXY_FILE", "proxies.txt"),

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "emergency-batches"),
		KafkaEnabled: len(brokers) > 0,
	}

	if cfg.DispatchURL == "" {
		return nil, errors.New("DISPATCH_URL is required")
	}
	if cfg.DisasterURL == "" {
		return nil, errors.New("DISASTER_URL is required")
	}
	if cfg.MaxAttempts < 1 {
		return nil, errors.New("FETCH_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
