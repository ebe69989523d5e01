package operators

import (
	"sort"
	"strings"

	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/query"
)

func registerLogical(reg *query.Registry) {
	// decisiveSubResult is the sub-query verdict that ends evaluation
	// early; finalOnDecisive is what the combinator returns when it does;
	// emptyResult (also the result when every sub-query runs without ever
	// being decisive) is the fold's identity value.
	reg.Register("$and", combinator("$and", false, false, true))
	reg.Register("$or", combinator("$or", true, true, false))
	reg.Register("$nor", combinator("$nor", true, false, true))

	reg.Register("$not", buildNot)
}

// combinator builds a Factory for $and/$or/$nor: param must be an array
// of sub-queries, each compiled independently and tested against
// whatever value the combinator itself receives (the whole document at
// the root, or a field's value when field-scoped). Sub-queries are
// tested in order and evaluation stops at the first sub-query whose
// result equals decisiveSubResult, per the specification's short-circuit
// rule — an error from a sub-query past that point is never reached, and
// an error from one before it propagates exactly as a serial,
// non-short-circuited evaluation would.
func combinator(name string, decisiveSubResult, finalOnDecisive, emptyResult bool) query.Factory {
	return func(param any) (query.Operation, error) {
		arr, ok := param.([]any)
		if !ok {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "%s requires an array of sub-queries, got %T", name, param)
		}
		subs := make([]*query.CompiledQuery, len(arr))
		for i, raw := range arr {
			sub, err := query.ParseAndCompile(raw)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			for _, sub := range subs {
				ok, err := sub.Test(value)
				if err != nil {
					return false, err
				}
				if ok == decisiveSubResult {
					return finalOnDecisive, nil
				}
			}
			return emptyResult, nil
		}), nil
	}
}

// buildNot implements $not, whose parameter is either an operator-set
// (all keys $-prefixed — applied directly against the same
// value/key/parent $not itself receives, "as if it were the field's
// operator set") or a full field-keyed sub-query (compiled independently
// and tested against value as a standalone document — the root-level
// "$not: {field: ...}" re-parse form).
func buildNot(param any) (query.Operation, error) {
	m, ok := param.(map[string]any)
	if !ok {
		return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$not requires a sub-query or operator-set object, got %T", param)
	}

	if isOperatorSet(m) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		inner := make([]query.Operation, 0, len(keys))
		for _, k := range keys {
			op, err := query.DefaultRegistry.Build(k, m[k])
			if err != nil {
				return nil, err
			}
			inner = append(inner, op)
		}
		return query.OperationFunc(func(value any, key string, parent any, found bool) (bool, error) {
			for _, op := range inner {
				ok, err := op.Test(value, key, parent, found)
				if err != nil {
					return false, err
				}
				if !ok {
					return true, nil
				}
			}
			return false, nil
		}), nil
	}

	sub, err := query.ParseAndCompile(param)
	if err != nil {
		return nil, err
	}
	return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
		ok, err := sub.Test(value)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}), nil
}

func isOperatorSet(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}
