package operators

import (
	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/query"
)

func registerExists(reg *query.Registry) {
	reg.Register("$exists", func(param any) (query.Operation, error) {
		want, ok := param.(bool)
		if !ok {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$exists requires a boolean parameter, got %T", param)
		}
		return query.OperationFunc(func(_ any, _ string, _ any, found bool) (bool, error) {
			return found == want, nil
		}), nil
	})
}
