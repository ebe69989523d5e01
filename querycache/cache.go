// Package querycache caches compiled queries keyed by the hash of their
// raw JSON representation, so that repeatedly evaluating the same query
// document (a very common pattern for a long-running filter/validation
// service) skips re-parsing and re-compiling it.
package querycache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"go.uber.org/atomic"

	"github.com/siftql/siftql/query"
)

// entry is one cached compiled query plus its compressed source, kept
// around for diagnostics (e.g. dumping what's currently cached) without
// holding onto the uncompressed JSON long-term.
type entry struct {
	compiled   *query.CompiledQuery
	compressed []byte
	expiresAt  time.Time
}

// Cache is a hash-keyed, TTL-expiring cache of compiled queries. The zero
// value is not usable; construct one with New.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[uint64]entry

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithClock overrides the cache's clock, for deterministic tests.
func WithClock(c clock.Clock) Option {
	return func(ch *Cache) { ch.clock = c }
}

// New builds a Cache whose entries expire after ttl. ttl <= 0 disables
// expiry entirely: entries then live for the cache's lifetime, and Purge
// removes nothing.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl:     ttl,
		clock:   clock.New(),
		entries: make(map[uint64]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompile returns the compiled form of queryDoc, computing and
// caching it on a miss. queryDoc must marshal to JSON deterministically
// enough that identical queries produce identical bytes and therefore the
// same cache key (Go's encoding/json sorts map keys, so plain
// map[string]any query documents satisfy this).
func (c *Cache) GetOrCompile(queryDoc any) (*query.CompiledQuery, error) {
	raw, err := json.Marshal(queryDoc)
	if err != nil {
		return nil, err
	}
	key := xxhash.Sum64(raw)

	if compiled, ok := c.lookup(key); ok {
		c.hits.Inc()
		return compiled, nil
	}
	c.misses.Inc()

	parsed, err := query.Parse(queryDoc)
	if err != nil {
		return nil, err
	}
	compiled, err := parsed.Compile()
	if err != nil {
		return nil, err
	}

	c.store(key, compiled, raw)
	return compiled, nil
}

func (c *Cache) lookup(key uint64) (*query.CompiledQuery, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.clock.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.compiled, true
}

func (c *Cache) store(key uint64, compiled *query.CompiledQuery, raw []byte) {
	e := entry{
		compiled:   compiled,
		compressed: snappy.Encode(nil, raw),
	}
	if c.ttl > 0 {
		e.expiresAt = c.clock.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Inspect returns the original JSON source of the query document cached
// under queryDoc's key, decompressed from the snappy-encoded form stored
// alongside the compiled query. Returns false if queryDoc is not (or no
// longer) cached.
func (c *Cache) Inspect(queryDoc any) ([]byte, bool) {
	raw, err := json.Marshal(queryDoc)
	if err != nil {
		return nil, false
	}
	key := xxhash.Sum64(raw)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.clock.Now().After(e.expiresAt) {
		return nil, false
	}

	decoded, err := snappy.Decode(nil, e.compressed)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// Stats reports cumulative hit/miss counters and the current entry count.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}

// Purge removes every expired entry and returns how many were evicted.
// Callers of a long-lived cache should run this periodically rather than
// relying solely on lazy expiry in GetOrCompile/lookup.
func (c *Cache) Purge() int {
	if c.ttl <= 0 {
		return 0
	}
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}
