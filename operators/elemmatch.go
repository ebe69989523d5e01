package operators

import (
	"github.com/siftql/siftql/query"
)

func registerElemMatch(reg *query.Registry) {
	reg.Register("$elemMatch", func(param any) (query.Operation, error) {
		sub, err := query.ParseAndCompile(param)
		if err != nil {
			return nil, err
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			arr, ok := value.([]any)
			if !ok {
				return false, nil
			}
			for _, elem := range arr {
				ok, err := sub.Test(elem)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
			}
			return false, nil
		}), nil
	})
}
