package querycache_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/siftql/siftql/operators"
	"github.com/siftql/siftql/querycache"
)

func TestGetOrCompileCachesByContent(t *testing.T) {
	c := querycache.New(time.Minute)
	q := map[string]any{"age": map[string]any{"$gte": float64(18)}}

	first, err := c.GetOrCompile(q)
	require.NoError(t, err)
	second, err := c.GetOrCompile(q)
	require.NoError(t, err)

	assert.Same(t, first, second)
	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestInspectReturnsOriginalSource(t *testing.T) {
	c := querycache.New(time.Minute)
	q := map[string]any{"age": map[string]any{"$gte": float64(18)}}

	_, err := c.GetOrCompile(q)
	require.NoError(t, err)

	raw, ok := c.Inspect(q)
	require.True(t, ok)
	assert.JSONEq(t, `{"age":{"$gte":18}}`, string(raw))

	_, ok = c.Inspect(map[string]any{"status": "active"})
	assert.False(t, ok)
}

func TestEntryExpires(t *testing.T) {
	mock := clock.NewMock()
	c := querycache.New(time.Minute, querycache.WithClock(mock))
	q := map[string]any{"status": "active"}

	_, err := c.GetOrCompile(q)
	require.NoError(t, err)

	mock.Add(2 * time.Minute)
	_, err = c.GetOrCompile(q)
	require.NoError(t, err)

	assert.Equal(t, int64(2), c.Stats().Misses)
}

func TestPurgeRemovesExpiredEntries(t *testing.T) {
	mock := clock.NewMock()
	c := querycache.New(time.Second, querycache.WithClock(mock))
	_, err := c.GetOrCompile(map[string]any{"a": float64(1)})
	require.NoError(t, err)

	mock.Add(5 * time.Second)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Stats().Entries)
}
