// Package mongoscan filters a MongoDB collection through a compiled
// query, for callers who want this module's richer operator set
// ($where, $elemMatch, $mod, dot-path array fan-out) applied client-side
// rather than translated into a native Mongo filter document.
package mongoscan

import (
	"context"
	"time"

	"github.com/jinzhu/inflection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/siftql/siftql/query"
	"github.com/siftql/siftql/stats"
)

// Scanner filters documents from a MongoDB collection against a compiled
// query, decoding and testing candidates concurrently.
type Scanner struct {
	coll      *mongo.Collection
	compiled  *query.CompiledQuery
	batchSize int32
	workers   int
	recorder  *stats.Recorder
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithBatchSize overrides the cursor batch size used when reading
// candidate documents from MongoDB.
func WithBatchSize(n int32) Option {
	return func(s *Scanner) { s.batchSize = n }
}

// WithWorkers overrides how many goroutines test documents concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRecorder attaches a stats.Recorder that observes every document's
// match outcome and evaluation latency, shared across all of a Scan's
// concurrent workers.
func WithRecorder(r *stats.Recorder) Option {
	return func(s *Scanner) { s.recorder = r }
}

// New builds a Scanner for coll, evaluating compiled against every
// document the collection holds.
func New(coll *mongo.Collection, compiled *query.CompiledQuery, opts ...Option) *Scanner {
	s := &Scanner{coll: coll, compiled: compiled, batchSize: 500, workers: 8}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CollectionName derives the conventional collection name for a singular
// document type name, e.g. "review" -> "reviews".
func CollectionName(singular string) string {
	return inflection.Plural(singular)
}

// Scan reads every document in the collection and returns those matching
// the compiled query, preserving no particular order across concurrent
// workers.
func (s *Scanner) Scan(ctx context.Context) ([]bson.M, error) {
	findOpts := options.Find().SetBatchSize(s.batchSize)
	cursor, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make(chan bson.M, s.workers*2)
	matches := make(chan bson.M, s.workers*2)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(docs)
		for cursor.Next(gctx) {
			var doc bson.M
			if err := cursor.Decode(&doc); err != nil {
				return err
			}
			select {
			case docs <- doc:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return cursor.Err()
	})

	for i := 0; i < s.workers; i++ {
		group.Go(func() error {
			for doc := range docs {
				start := time.Now()
				ok, err := s.compiled.Test(map[string]any(doc))
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

	var results []bson.M
	for doc := range matches {
		results = append(results, doc)
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
