package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/siftql/siftql/stats"
)

func TestSnapshotEmpty(t *testing.T) {
	r := stats.NewRecorder()
	snap := r.Snapshot()
	assert.Equal(t, int64(0), snap.Total)
	assert.Equal(t, float64(0), snap.MatchRate)
}

func TestSnapshotAccumulates(t *testing.T) {
	r := stats.NewRecorder()
	r.Observe(true, 10*time.Microsecond)
	r.Observe(false, 20*time.Microsecond)
	r.Observe(true, 30*time.Microsecond)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap.Total)
	assert.Equal(t, int64(2), snap.Matches)
	assert.InDelta(t, 2.0/3.0, snap.MatchRate, 1e-9)
	assert.InDelta(t, 20, snap.MeanMicros, 1e-9)
}

func TestResetClearsState(t *testing.T) {
	r := stats.NewRecorder()
	r.Observe(true, time.Microsecond)
	r.Reset()
	snap := r.Snapshot()
	assert.Equal(t, int64(0), snap.Total)
}
