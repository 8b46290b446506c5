package proxy

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProxyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proxies.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFiltersInvalidEntries(t *testing.T) {
	path := writeProxyFile(t, `# free proxies, refreshed daily
10.1.2.3:8080

0.0.0.0:80
127.0.0.1:3128
127.0.0.9:80
  203.0.113.7:3128
# trailing comment
`)

	pool := Load(path, slog.Default())
	assert.Equal(t, 2, pool.Size())
}

func TestLoadMissingFileYieldsEmptyPool(t *testing.T) {
	pool := Load(filepath.Join(t.TempDir(), "nope.txt"), slog.Default())
	assert.Equal(t, 0, pool.Size())
}

func TestCycleNeverRepeatsWithinCycle(t *testing.T) {
	addrs := []string{"a:1", "b:2", "c:3", "d:4"}
	pool := New(addrs)

	cycle := pool.Cycle()
	seen := make(map[string]bool)
	for range addrs {
		addr, ok := cycle.Next()
		require.True(t, ok)
		assert.False(t, seen[addr], "proxy %s handed out twice", addr)
		seen[addr] = true
	}

	_, ok := cycle.Next()
	assert.False(t, ok, "exhausted cycle must report no more proxies")
	assert.Len(t, seen, len(addrs))
}

func TestCycleOnEmptyPool(t *testing.T) {
	cycle := New(nil).Cycle()
	_, ok := cycle.Next()
	assert.False(t, ok)
}

func TestCyclesAreIndependent(t *testing.T) {
	pool := New([]string{"a:1", "b:2"})

	c1 := pool.Cycle()
	c1.Next()
	c1.Next()

	c2 := pool.Cycle()
	_, ok := c2.Next()
	assert.True(t, ok, "a fresh cycle sees the full pool again")
}
