package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sifterrors "github.com/siftql/siftql/errors"
	_ "github.com/siftql/siftql/operators"
	"github.com/siftql/siftql/query"
)

func sift(t *testing.T, q any, doc any) bool {
	t.Helper()
	parsed, err := query.Parse(q)
	require.NoError(t, err)
	compiled, err := parsed.Compile()
	require.NoError(t, err)
	ok, err := compiled.Test(doc)
	require.NoError(t, err)
	return ok
}

func TestLiteralEquality(t *testing.T) {
	doc := map[string]any{"age": float64(30)}
	assert.True(t, sift(t, map[string]any{"age": float64(30)}, doc))
	assert.False(t, sift(t, map[string]any{"age": float64(31)}, doc))
}

func TestComparisonOperator(t *testing.T) {
	doc := map[string]any{"age": float64(30)}
	assert.True(t, sift(t, map[string]any{"age": map[string]any{"$gte": float64(18)}}, doc))
	assert.False(t, sift(t, map[string]any{"age": map[string]any{"$gt": float64(30)}}, doc))
}

func TestNestedPathComparison(t *testing.T) {
	doc := map[string]any{
		"address": map[string]any{"zip": float64(94107)},
	}
	assert.True(t, sift(t, map[string]any{"address.zip": map[string]any{"$gt": float64(90000)}}, doc))
}

func TestAllOperator(t *testing.T) {
	doc := map[string]any{"tags": []any{"go", "rust", "python"}}
	assert.True(t, sift(t, map[string]any{"tags": map[string]any{"$all": []any{"go", "rust"}}}, doc))
	assert.False(t, sift(t, map[string]any{"tags": map[string]any{"$all": []any{"go", "java"}}}, doc))
}

func TestArrayFanOutComparison(t *testing.T) {
	doc := map[string]any{
		"reviews": []any{
			map[string]any{"rating": float64(3)},
			map[string]any{"rating": float64(5)},
		},
	}
	assert.True(t, sift(t, map[string]any{"reviews.rating": map[string]any{"$gte": float64(5)}}, doc))
	assert.False(t, sift(t, map[string]any{"reviews.rating": map[string]any{"$gte": float64(6)}}, doc))
}

func TestElemMatch(t *testing.T) {
	doc := map[string]any{
		"reviews": []any{
			map[string]any{"rating": float64(3), "verified": false},
			map[string]any{"rating": float64(5), "verified": true},
		},
	}
	q := map[string]any{
		"reviews": map[string]any{
			"$elemMatch": map[string]any{
				"rating":   map[string]any{"$gte": float64(5)},
				"verified": false,
			},
		},
	}
	assert.False(t, sift(t, q, doc))
}

func TestAndOrCoOccurrenceRule(t *testing.T) {
	doc := map[string]any{"status": "active", "age": float64(25), "role": "admin"}

	// Both present: the $or branches are extended with one extra branch
	// that requires every $and condition, so a document matching $and
	// alone also matches.
	q := map[string]any{
		"$and": []any{
			map[string]any{"status": "active"},
			map[string]any{"age": map[string]any{"$gte": float64(18)}},
		},
		"$or": []any{
			map[string]any{"role": "guest"},
		},
	}
	assert.True(t, sift(t, q, doc))

	docGuest := map[string]any{"status": "inactive", "age": float64(10), "role": "guest"}
	assert.True(t, sift(t, q, docGuest))

	docNeither := map[string]any{"status": "inactive", "age": float64(10), "role": "admin"}
	assert.False(t, sift(t, q, docNeither))
}

func TestNotWithOperatorSet(t *testing.T) {
	doc := map[string]any{"age": float64(15)}
	q := map[string]any{"age": map[string]any{"$not": map[string]any{"$gte": float64(18)}}}
	assert.True(t, sift(t, q, doc))
}

func TestExistsDistinguishesAbsentFromNull(t *testing.T) {
	docAbsent := map[string]any{"name": "a"}
	docNull := map[string]any{"name": "a", "nickname": nil}

	q := map[string]any{"nickname": map[string]any{"$exists": true}}
	assert.False(t, sift(t, q, docAbsent))
	assert.True(t, sift(t, q, docNull))
}

func TestWhereExpression(t *testing.T) {
	doc := map[string]any{"price": float64(120), "discount": float64(20)}
	q := map[string]any{"$where": "this.price - this.discount < 110"}
	assert.True(t, sift(t, q, doc))
}

func TestDateComparison(t *testing.T) {
	doc := map[string]any{"createdAt": "2024-06-01T00:00:00Z"}
	q := map[string]any{"createdAt": map[string]any{"$gt": "2024-01-01T00:00:00Z"}}
	assert.True(t, sift(t, q, doc))
}

func TestOperatorSetCombinesAllMalformedKeys(t *testing.T) {
	q := map[string]any{
		"x": map[string]any{
			"$in":    "not-an-array",
			"$where": "(((",
		},
	}
	parsed, err := query.Parse(q)
	require.NoError(t, err)

	_, err = parsed.Compile()
	require.Error(t, err)
	assert.True(t, sifterrors.Is(err, sifterrors.InvalidQuery))
	assert.True(t, sifterrors.Is(err, sifterrors.EvaluationError))
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	assert.True(t, sift(t, map[string]any{}, map[string]any{"a": float64(1)}))
}
