// Package proxy maintains the candidate list of outbound proxies used to
// reach upstreams that throttle datacenter traffic.
package proxy

import (
	"bufio"
	"log/slog"
	"math/rand"
	"os"
	"strings"
)

// Pool holds candidate proxy addresses in host:port form.
type Pool struct {
	addrs []string
}

// New builds a pool from pre-filtered addresses. Mostly useful in tests;
// production code loads from a file via Load.
func New(addrs []string) *Pool {
	return &Pool{addrs: addrs}
}

// Load reads a proxy list file, one host:port per line. Blank lines, comment
// lines, and known-invalid placeholder addresses are dropped. A missing file
// yields an empty pool, which means direct connections only.
func Load(path string, logger *slog.Logger) *Pool {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("proxy list unavailable, using direct connections", "path", path, "error", err)
		return &Pool{}
	}
	defer f.Close()

	var addrs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if validAddr(line) {
			addrs = append(addrs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("proxy list read failed", "path", path, "error", err)
	}

	logger.Info("proxy pool loaded", "path", path, "size", len(addrs))
	return &Pool{addrs: addrs}
}

// validAddr filters out comments and the placeholder entries that show up in
// public proxy lists.
func validAddr(line string) bool {
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	if line == "0.0.0.0:80" || strings.HasPrefix(line, "127.0.0") {
		return false
	}
	return true
}

// Size reports how many candidates the pool holds.
func (p *Pool) Size() int {
	return len(p.addrs)
}

// Cycle starts a selection cycle that hands out proxies in random order
// without repeating one within the cycle.
func (p *Pool) Cycle() *Cycle {
	remaining := make([]string, len(p.addrs))
	copy(remaining, p.addrs)
	rand.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	return &Cycle{remaining: remaining}
}

// Cycle is a single retry cycle's view of the pool.
type Cycle struct {
	remaining []string
}

// Next returns an unused proxy address, or false when the cycle is exhausted.
func (c *Cycle) Next() (string, bool) {
	if len(c.remaining) == 0 {
		return "", false
	}
	addr := c.remaining[len(c.remaining)-1]
	c.remaining = c.remaining[:len(c.remaining)-1]
	return addr, true
}
