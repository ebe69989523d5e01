// Package stats tracks evaluation latency and match-rate statistics for
// a running query, using montanaflynn/stats for the descriptive-statistics
// calculations (mean, percentiles, standard deviation) that a hand-rolled
// accumulator would get wrong at the tails.
package stats

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// Recorder accumulates per-document evaluation outcomes for one compiled
// query. It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	durations []float64
	matches   int64
	total     int64
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Observe records one evaluation's outcome and how long it took.
func (r *Recorder) Observe(matched bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations = append(r.durations, float64(elapsed.Microseconds()))
	r.total++
	if matched {
		r.matches++
	}
}

// Snapshot summarizes evaluation latency and match rate so far.
type Snapshot struct {
	Total      int64
	Matches    int64
	MatchRate  float64
	MeanMicros float64
	P50Micros  float64
	P95Micros  float64
	P99Micros  float64
	StdDev     float64
}

// Snapshot computes a Snapshot from the durations observed so far. An
// empty Recorder yields a zero-value Snapshot with MatchRate 0.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	durations := append([]float64(nil), r.durations...)
	total, matches := r.total, r.matches
	r.mu.Unlock()

	snap := Snapshot{Total: total, Matches: matches}
	if total > 0 {
		snap.MatchRate = float64(matches) / float64(total)
	}
	if len(durations) == 0 {
		return snap
	}

	data := stats.LoadRawData(durations)
	snap.MeanMicros, _ = stats.Mean(data)
	snap.P50Micros, _ = stats.Percentile(data, 50)
	snap.P95Micros, _ = stats.Percentile(data, 95)
	snap.P99Micros, _ = stats.Percentile(data, 99)
	snap.StdDev, _ = stats.StandardDeviation(data)
	return snap
}

// Reset clears all recorded observations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations = nil
	r.matches = 0
	r.total = 0
}
