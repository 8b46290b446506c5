package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://sgonorte.bomberosperu.gob.pe/24horas", cfg.DispatchURL)
	assert.Equal(t, "https://sgonorte.bomberosperu.gob.pe/", cfg.DispatchReferer)
	assert.Contains(t, cfg.DisasterURL, "EMERGENCIAS_SINPAD/FeatureServer/0/query")
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.BackoffBase)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "proxies.txt", cfg.ProxyFile)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DISPATCH_URL", "http://localhost:1234/24horas")
	t.Setenv("DISASTER_URL", "http://localhost:1234/query")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_MAX_ATTEMPTS", "3")
	t.Setenv("FETCH_BACKOFF_BASE", "100ms")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("PROXY_FILE", "/etc/scanner/proxies.txt")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "batches")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:1234/24horas", cfg.DispatchURL)
	assert.Equal(t, "http://localhost:1234/query", cfg.DisasterURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.BackoffBase)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "/etc/scanner/proxies.txt", cfg.ProxyFile)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "batches", cfg.KafkaTopic)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative duration", func(t *testing.T) {
		t.Setenv("FETCH_TIMEOUT", "-5s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero attempts", func(t *testing.T) {
		t.Setenv("FETCH_MAX_ATTEMPTS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
