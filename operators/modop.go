package operators

import (
	"math"

	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/internal/values"
	"github.com/siftql/siftql/query"
)

const modEpsilon = 1e-9

func registerMod(reg *query.Registry) {
	reg.Register("$mod", func(param any) (query.Operation, error) {
		arr, ok := param.([]any)
		if !ok || len(arr) != 2 {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$mod requires a [divisor, remainder] array, got %T", param)
		}
		divisor, divOK := arr[0].(float64)
		remainder, remOK := arr[1].(float64)
		if !divOK || !remOK {
			return nil, sifterrors.New(sifterrors.InvalidQuery, "$mod divisor and remainder must both be numbers")
		}
		if divisor == 0 {
			return nil, sifterrors.New(sifterrors.InvalidQuery, "$mod divisor must not be zero")
		}

		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			if !values.IsNumeric(value) {
				return false, nil
			}
			n, _ := toFloat(value)
			rem := math.Mod(n, divisor)
			return math.Abs(rem-remainder) <= modEpsilon, nil
		}), nil
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
