package operators

import (
	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/internal/values"
	"github.com/siftql/siftql/query"
)

func registerSet(reg *query.Registry) {
	reg.Register("$in", func(param any) (query.Operation, error) {
		set, err := asArray(param, "$in")
		if err != nil {
			return nil, err
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return matchesAny(value, set), nil
		}), nil
	})

	reg.Register("$nin", func(param any) (query.Operation, error) {
		set, err := asArray(param, "$nin")
		if err != nil {
			return nil, err
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return !matchesAny(value, set), nil
		}), nil
	})

	reg.Register("$all", func(param any) (query.Operation, error) {
		required, err := asArray(param, "$all")
		if err != nil {
			return nil, err
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			arr, ok := value.([]any)
			if !ok {
				return false, nil
			}
			for _, want := range required {
				found := false
				for _, have := range arr {
					if values.Equal(have, want) {
						found = true
						break
					}
				}
				if !found {
					return false, nil
				}
			}
			return true, nil
		}), nil
	})
}

// matchesAny implements $in's "if value is itself an array, true if any
// of its elements equals some element [of the parameter array]" rule,
// alongside the plain scalar-equals-some-element case.
func matchesAny(value any, set []any) bool {
	if arr, ok := value.([]any); ok {
		for _, elem := range arr {
			for _, want := range set {
				if values.Equal(elem, want) {
					return true
				}
			}
		}
		return false
	}
	for _, want := range set {
		if values.Equal(value, want) {
			return true
		}
	}
	return false
}

func asArray(param any, op string) ([]any, error) {
	arr, ok := param.([]any)
	if !ok {
		return nil, sifterrors.Newf(sifterrors.InvalidQuery, "%s requires an array parameter, got %T", op, param)
	}
	return arr, nil
}
