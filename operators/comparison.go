package operators

import (
	"github.com/siftql/siftql/internal/values"
	"github.com/siftql/siftql/query"
)

func registerComparison(reg *query.Registry) {
	reg.Register("$eq", func(param any) (query.Operation, error) {
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return values.Equal(value, param), nil
		}), nil
	})

	reg.Register("$ne", func(param any) (query.Operation, error) {
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return !values.Equal(value, param), nil
		}), nil
	})

	reg.Register("$gt", comparisonOperator(func(o values.Ordering) bool { return o == values.Greater }))
	reg.Register("$gte", comparisonOperator(func(o values.Ordering) bool { return o == values.Greater || o == values.Equal }))
	reg.Register("$lt", comparisonOperator(func(o values.Ordering) bool { return o == values.Less }))
	reg.Register("$lte", comparisonOperator(func(o values.Ordering) bool { return o == values.Less || o == values.Equal }))
}

// comparisonOperator builds a Factory for a three-way-ordering-based
// operator (everything but $eq/$ne). An incomparable pair yields false,
// not an error, per the operator contract's "return false, not error, on
// an incompatible type" default.
func comparisonOperator(accept func(values.Ordering) bool) query.Factory {
	return func(param any) (query.Operation, error) {
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return accept(values.Compare(value, param)), nil
		}), nil
	}
}
