package operators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/siftql/siftql/operators"
	"github.com/siftql/siftql/query"
)

func build(t *testing.T, name string, param any) query.Operation {
	t.Helper()
	op, err := query.DefaultRegistry.Build(name, param)
	require.NoError(t, err)
	return op
}

func test(t *testing.T, op query.Operation, value any, key string, parent any, found bool) bool {
	t.Helper()
	ok, err := op.Test(value, key, parent, found)
	require.NoError(t, err)
	return ok
}

func TestComparisonOperators(t *testing.T) {
	assert.True(t, test(t, build(t, "$eq", float64(5)), float64(5), "", nil, true))
	assert.True(t, test(t, build(t, "$ne", float64(5)), float64(6), "", nil, true))
	assert.True(t, test(t, build(t, "$gt", float64(5)), float64(6), "", nil, true))
	assert.False(t, test(t, build(t, "$gt", float64(5)), float64(5), "", nil, true))
	assert.True(t, test(t, build(t, "$gte", float64(5)), float64(5), "", nil, true))
	assert.True(t, test(t, build(t, "$lt", float64(5)), float64(4), "", nil, true))
	assert.True(t, test(t, build(t, "$lte", float64(5)), float64(5), "", nil, true))
}

func TestComparisonIncomparableIsFalse(t *testing.T) {
	assert.False(t, test(t, build(t, "$gt", float64(5)), "not a number", "", nil, true))
}

func TestSetOperators(t *testing.T) {
	in := build(t, "$in", []any{"a", "b"})
	assert.True(t, test(t, in, "a", "", nil, true))
	assert.False(t, test(t, in, "c", "", nil, true))
	assert.True(t, test(t, in, []any{"c", "b"}, "", nil, true))

	nin := build(t, "$nin", []any{"a", "b"})
	assert.True(t, test(t, nin, "c", "", nil, true))

	all := build(t, "$all", []any{"x", "y"})
	assert.True(t, test(t, all, []any{"x", "y", "z"}, "", nil, true))
	assert.False(t, test(t, all, []any{"x"}, "", nil, true))
}

func TestExistsOperator(t *testing.T) {
	wantTrue := build(t, "$exists", true)
	assert.True(t, test(t, wantTrue, nil, "", nil, true))
	assert.False(t, test(t, wantTrue, nil, "", nil, false))

	wantFalse := build(t, "$exists", false)
	assert.True(t, test(t, wantFalse, nil, "", nil, false))
}

func TestTypeOperator(t *testing.T) {
	assert.True(t, test(t, build(t, "$type", "string"), "x", "", nil, true))
	assert.True(t, test(t, build(t, "$type", "number"), float64(3), "", nil, true))
	assert.False(t, test(t, build(t, "$type", "array"), "x", "", nil, true))
}

func TestRegexOperator(t *testing.T) {
	op := build(t, "$regex", "^a.+z$")
	assert.True(t, test(t, op, "abz", "", nil, true))
	assert.False(t, test(t, op, "zzza", "", nil, true))
}

func TestOptionsOperatorIsNoop(t *testing.T) {
	op := build(t, "$options", "i")
	assert.True(t, test(t, op, "anything", "", nil, true))
}

func TestModOperator(t *testing.T) {
	op := build(t, "$mod", []any{float64(4), float64(0)})
	assert.True(t, test(t, op, float64(8), "", nil, true))
	assert.False(t, test(t, op, float64(7), "", nil, true))
}

func TestSizeOperator(t *testing.T) {
	op := build(t, "$size", float64(2))
	assert.True(t, test(t, op, []any{"a", "b"}, "", nil, true))
	assert.False(t, test(t, op, []any{"a"}, "", nil, true))
}

func TestElemMatchOperator(t *testing.T) {
	op := build(t, "$elemMatch", map[string]any{"rating": map[string]any{"$gte": float64(4)}})
	assert.True(t, test(t, op, []any{
		map[string]any{"rating": float64(2)},
		map[string]any{"rating": float64(5)},
	}, "", nil, true))
	assert.False(t, test(t, op, []any{
		map[string]any{"rating": float64(1)},
	}, "", nil, true))
}

func TestLogicalAndOr(t *testing.T) {
	and := build(t, "$and", []any{
		map[string]any{"a": float64(1)},
		map[string]any{"b": float64(2)},
	})
	assert.True(t, test(t, and, map[string]any{"a": float64(1), "b": float64(2)}, "", nil, true))
	assert.False(t, test(t, and, map[string]any{"a": float64(1), "b": float64(3)}, "", nil, true))

	or := build(t, "$or", []any{
		map[string]any{"a": float64(1)},
		map[string]any{"b": float64(2)},
	})
	assert.True(t, test(t, or, map[string]any{"a": float64(9), "b": float64(2)}, "", nil, true))

	nor := build(t, "$nor", []any{
		map[string]any{"a": float64(1)},
	})
	assert.True(t, test(t, nor, map[string]any{"a": float64(9)}, "", nil, true))
}

func TestWhereOperator(t *testing.T) {
	op := build(t, "$where", "this.a + this.b === 3")
	assert.True(t, test(t, op, map[string]any{"a": float64(1), "b": float64(2)}, "", nil, true))
	assert.False(t, test(t, op, map[string]any{"a": float64(1), "b": float64(1)}, "", nil, true))
}
