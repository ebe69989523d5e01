package operators

import (
	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/jsexpr"
	"github.com/siftql/siftql/query"
)

func registerWhere(reg *query.Registry) {
	reg.Register("$where", func(param any) (query.Operation, error) {
		expr, ok := param.(string)
		if !ok {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$where requires a string expression, got %T", param)
		}
		eval, err := jsexpr.NewEvaluator(expr)
		if err != nil {
			return nil, err
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return eval.Test(value)
		}), nil
	})
}
