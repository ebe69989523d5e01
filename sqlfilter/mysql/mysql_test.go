package mysql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/siftql/siftql/operators"
	"github.com/siftql/siftql/sqlfilter/mysql"
)

func TestCompileComparisonAndLogic(t *testing.T) {
	compiled, err := mysql.Compile("age >= 18 AND status = 'active'")
	require.NoError(t, err)

	ok, err := compiled.Test(map[string]any{"age": float64(25), "status": "active"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileBetween(t *testing.T) {
	compiled, err := mysql.Compile("age BETWEEN 18 AND 65")
	require.NoError(t, err)

	ok, err := compiled.Test(map[string]any{"age": float64(30)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = compiled.Test(map[string]any{"age": float64(70)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileLike(t *testing.T) {
	compiled, err := mysql.Compile("name LIKE 'John%'")
	require.NoError(t, err)

	ok, err := compiled.Test(map[string]any{"name": "Johnathan"})
	require.NoError(t, err)
	assert.True(t, ok)
}
