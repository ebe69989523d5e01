package operators

import (
	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/internal/values"
	"github.com/siftql/siftql/query"
)

func registerSize(reg *query.Registry) {
	reg.Register("$size", func(param any) (query.Operation, error) {
		n, ok := param.(float64)
		if !ok || n < 0 || n != float64(int(n)) {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$size requires a non-negative integer parameter, got %v", param)
		}
		want := int(n)
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			length, ok := values.Length(value)
			if !ok {
				return false, nil
			}
			return length == want, nil
		}), nil
	})
}
