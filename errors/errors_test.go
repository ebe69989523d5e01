package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sifterrors "github.com/siftql/siftql/errors"
)

func TestNewAndError(t *testing.T) {
	err := sifterrors.New(sifterrors.InvalidQuery, "bad shape")
	assert.Equal(t, "InvalidQuery: bad shape", err.Error())
}

func TestNewfFormats(t *testing.T) {
	err := sifterrors.Newf(sifterrors.UnsupportedOperation, "unknown operator %q", "$frobnicate")
	assert.Equal(t, `UnsupportedOperation: unknown operator "$frobnicate"`, err.Error())
}

func TestAsUnwrapsPlainError(t *testing.T) {
	err := sifterrors.New(sifterrors.EvaluationError, "boom")
	var target *sifterrors.Error
	assert.True(t, sifterrors.As(err, &target))
	assert.Equal(t, sifterrors.EvaluationError, target.Kind)
}

func TestCombineSingleErrorUnwraps(t *testing.T) {
	err := sifterrors.New(sifterrors.InvalidQuery, "only one")
	combined := sifterrors.Combine(err)
	var target *sifterrors.Error
	assert.True(t, sifterrors.As(combined, &target))
	assert.Equal(t, "only one", target.Message)
}

func TestCombineMultipleErrorsPreservesEachKind(t *testing.T) {
	a := sifterrors.New(sifterrors.InvalidQuery, "first")
	b := sifterrors.New(sifterrors.UnsupportedOperation, "second")
	combined := sifterrors.Combine(a, b)

	assert.True(t, sifterrors.Is(combined, sifterrors.InvalidQuery))
	assert.True(t, sifterrors.Is(combined, sifterrors.UnsupportedOperation))
	assert.False(t, sifterrors.Is(combined, sifterrors.SerializationError))
}

func TestCombineDropsNilEntries(t *testing.T) {
	a := sifterrors.New(sifterrors.InvalidQuery, "first")
	combined := sifterrors.Combine(nil, a, nil)
	var target *sifterrors.Error
	assert.True(t, sifterrors.As(combined, &target))
}
