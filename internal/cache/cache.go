// Package cache implements the bounded, TTL-based suggestion cache shared
// across concurrent requests.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config holds cache sizing and lifetime settings.
type Config struct {
	MaxEntries    int           // bound enforced opportunistically after writes
	TTL           time.Duration // entry lifetime measured from insertion
	SweepInterval time.Duration // background eviction cadence; 0 disables
}

type entry struct {
	suggestions  []string
	insertedAt   time.Time
	lastAccessed time.Time
}

// Cache is a concurrency-safe suggestion cache keyed by normalized query.
// Entries are replaced whole; a stored list is never mutated in place.
type Cache struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry

	now       func() time.Time
	stop      chan struct{}
	done      chan struct{}
	sizeGauge prometheus.Gauge
}

// New creates a cache. Start must be called to run the background sweep.
func New(cfg Config, logger *zap.Logger) *Cache {
	return &Cache{
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// WithGauge attaches a gauge tracking the entry count. May be nil.
func (c *Cache) WithGauge(g prometheus.Gauge) *Cache {
	c.sizeGauge = g
	return c
}

// Get returns the cached suggestions for key, or ok=false when the key is
// absent or its entry has outlived the TTL. A hit refreshes lastAccessed.
func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.Sub(e.insertedAt) >= c.cfg.TTL {
		delete(c.entries, key)
		return nil, false
	}
	e.lastAccessed = now

	out := make([]string, len(e.suggestions))
	copy(out, e.suggestions)
	return out, true
}

// Put inserts or overwrites the entry for key with a fresh insertion time,
// then enforces the size bound.
func (c *Cache) Put(key string, suggestions []string) {
	stored := make([]string, len(suggestions))
	copy(stored, suggestions)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &entry{
		suggestions:  stored,
		insertedAt:   now,
		lastAccessed: now,
	}
	if len(c.entries) > c.cfg.MaxEntries {
		c.evictLocked()
	}
	c.updateGaugeLocked()
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Start launches the periodic sweep goroutine. No-op when SweepInterval is 0.
func (c *Cache) Start() {
	if c.cfg.SweepInterval <= 0 {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.sweepLoop()
}

// Stop terminates the sweep goroutine and waits for it to exit.
func (c *Cache) Stop() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	<-c.done
	c.stop = nil
}

func (c *Cache) sweepLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep drops expired entries and, if the map is still over the bound,
// runs the same eviction as Put.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.cfg.TTL {
			delete(c.entries, k)
			removed++
		}
	}
	if len(c.entries) > c.cfg.MaxEntries {
		c.evictLocked()
	}
	c.updateGaugeLocked()
	if removed > 0 && c.logger != nil {
		c.logger.Debug("suggestion cache sweep",
			zap.Int("removed", removed),
			zap.Int("remaining", len(c.entries)),
		)
	}
}

// evictLocked keeps the MaxEntries/2 most recently accessed entries and
// discards the rest. Caller must hold c.mu.
func (c *Cache) evictLocked() {
	type keyed struct {
		key string
		e   *entry
	}
	all := make([]keyed, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, keyed{key: k, e: e})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].e.lastAccessed.After(all[j].e.lastAccessed)
	})

	keep := c.cfg.MaxEntries / 2
	if keep < 1 {
		keep = 1
	}
	for _, kv := range all[min(keep, len(all)):] {
		delete(c.entries, kv.key)
	}
}

func (c *Cache) updateGaugeLocked() {
	if c.sizeGauge != nil {
		c.sizeGauge.Set(float64(len(c.entries)))
	}
}
