package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fixly/repairdiag/internal/core/domain"
	"github.com/fixly/repairdiag/internal/telemetry"
)

const numShards = 16

type entry struct {
	result    *domain.DiagnosticResult
	expiresAt time.Time
}

type shard struct {
	mu      sync.RWMutex
	entries map[uint64]entry
}

// TTLCache is a sharded TTL store for diagnostic results, implementing
// ports.ResultCache. Expiry is lazy on read; a best-effort background reaper
// collects entries that are never read again. Keys come from ports.Key and
// embed the catalog epoch, so a snapshot reload invalidates every prior
// entry without a sweep.
type TTLCache struct {
	shards [numShards]*shard
}

// New creates an empty cache.
func New() *TTLCache {
	c := &TTLCache{}
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[uint64]entry)}
	}
	return c
}

func (c *TTLCache) getShard(key uint64) *shard {
	return c.shards[key%numShards]
}

// Get returns the cached result if present and fresh. Expired or unreadable
// entries are removed and treated as misses; unverifiable data is never
// served.
func (c *TTLCache) Get(key uint64) (*domain.DiagnosticResult, bool) {
	s := c.getShard(key)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.result == nil {
		telemetry.CacheLookups.WithLabelValues("corrupt").Inc()
		slog.Warn("Dropping corrupted cache entry", "key", key)
		c.Delete(key)
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.Delete(key)
		return nil, false
	}
	return e.result, true
}

// Put stores a result under key for ttl.
func (c *TTLCache) Put(key uint64, result *domain.DiagnosticResult, ttl time.Duration) {
	if result == nil || ttl <= 0 {
		return
	}
	s := c.getShard(key)
	s.mu.Lock()
	s.entries[key] = entry{result: result, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// Delete removes one entry.
func (c *TTLCache) Delete(key uint64) {
	s := c.getShard(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the total number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Reap removes expired entries from every shard. Shards busy serving requests
// are skipped; lazy expiry on read covers whatever a pass misses.
func (c *TTLCache) Reap() int {
	now := time.Now()
	removed := 0
	for _, s := range c.shards {
		if !s.mu.TryLock() {
			continue
		}
		for k, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Run sweeps on a fixed cadence until the context is cancelled.
func (c *TTLCache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Reap(); n > 0 {
				slog.Debug("Cache reap completed", "removed", n)
			}
		}
	}
}
