package ansi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/siftql/siftql/operators"
	"github.com/siftql/siftql/sqlfilter/ansi"
)

func TestCompileOrAndIsNull(t *testing.T) {
	compiled, err := ansi.Compile("deleted_at IS NULL OR status = 'archived'")
	require.NoError(t, err)

	ok, err := compiled.Test(map[string]any{"status": "archived"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = compiled.Test(map[string]any{"status": "active"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileIn(t *testing.T) {
	compiled, err := ansi.Compile("role IN ('admin', 'owner')")
	require.NoError(t, err)

	ok, err := compiled.Test(map[string]any{"role": "owner"})
	require.NoError(t, err)
	assert.True(t, ok)
}
