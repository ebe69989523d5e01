// Package redisscan filters a keyspace of Redis hashes through a
// compiled query, the same SCAN-then-HGETALL access pattern the
// teacher's Client.redisGet/redisCount use, but delegating the match
// test to this module's operator set instead of a bespoke condition
// matcher.
package redisscan

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/siftql/siftql/query"
	"github.com/siftql/siftql/stats"
)

// Scanner filters the hashes found under a key pattern against a
// compiled query.
type Scanner struct {
	rdb      *redis.Client
	pattern  string
	compiled *query.CompiledQuery
	count    int64
	workers  int
	recorder *stats.Recorder
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithScanCount overrides the COUNT hint passed to each SCAN call.
func WithScanCount(n int64) Option {
	return func(s *Scanner) { s.count = n }
}

// WithWorkers overrides how many goroutines fetch and test hashes
// concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRecorder attaches a stats.Recorder that observes every hash's match
// outcome and evaluation latency, shared across all of a Scan's
// concurrent workers.
func WithRecorder(r *stats.Recorder) Option {
	return func(s *Scanner) { s.recorder = r }
}

// New builds a Scanner that iterates keys matching pattern (a Redis
// glob, e.g. "user:*") and evaluates compiled against each hash.
func New(rdb *redis.Client, pattern string, compiled *query.CompiledQuery, opts ...Option) *Scanner {
	s := &Scanner{rdb: rdb, pattern: pattern, compiled: compiled, count: 100, workers: 8}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the keyspace with SCAN, fetches each matching key's hash
// with HGETALL, and returns the hashes (as string-keyed maps with
// numeric-looking fields coerced to float64 so comparison operators work
// the same way they do against JSON-decoded documents) that satisfy the
// compiled query.
func (s *Scanner) Scan(ctx context.Context) ([]map[string]any, error) {
	keys := make(chan string, s.workers*2)
	matches := make(chan map[string]any, s.workers*2)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(keys)
		var cursor uint64
		for {
			batch, next, err := s.rdb.Scan(gctx, cursor, s.pattern, s.count).Result()
			if err != nil {
				return err
			}
			for _, k := range batch {
				select {
				case keys <- k:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			cursor = next
			if cursor == 0 {
				return nil
			}
		}
	})

	for i := 0; i < s.workers; i++ {
		group.Go(func() error {
			for key := range keys {
				hash, err := s.rdb.HGetAll(gctx, key).Result()
				if err != nil {
					return err
				}
				if len(hash) == 0 {
					continue
				}
				doc := coerce(hash)
				start := time.Now()
				ok, err := s.compiled.Test(doc)
				if s.recorder != nil {
					s.recorder.Observe(err == nil && ok, time.Since(start))
				}
				if err != nil {
					return err
				}
				if ok {
					select {
					case matches <- doc:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
			return nil
		})
	}

	go func() {
		group.Wait()
		close(matches)
	}()

	var results []map[string]any
	for doc := range matches {
		results = append(results, doc)
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// coerce turns a Redis hash's string fields into the same JSON-ish
// value types Parse/Compile expect: numbers and booleans parsed out
// where the string round-trips cleanly, everything else left as a
// string.
func coerce(hash map[string]string) map[string]any {
	doc := make(map[string]any, len(hash))
	for k, v := range hash {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			doc[k] = n
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil {
			doc[k] = b
			continue
		}
		doc[k] = v
	}
	return doc
}
