package query

import (
	"sort"
	"strings"

	sifterrors "github.com/siftql/siftql/errors"
)

const (
	opAnd   = "$and"
	opOr    = "$or"
	opNot   = "$not"
	opNor   = "$nor"
	opWhere = "$where"
)

var rootOperatorNames = map[string]bool{
	opAnd: true, opOr: true, opNot: true, opNor: true, opWhere: true,
}

// Parse converts a raw, already-JSON-decoded query value into a
// structured Query tree, per the parser rules of the specification.
// Parsing is total: it either returns a usable tree or an error, never a
// partial result.
func Parse(raw any) (*Query, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, sifterrors.Newf(sifterrors.InvalidQuery, "query must be a JSON object, got %T", raw)
	}
	return parseMap(m)
}

func parseMap(m map[string]any) (*Query, error) {
	m = applyAndOrCoOccurrenceRule(m)

	keys := sortedKeys(m)
	q := &Query{}
	for _, key := range keys {
		val := m[key]
		if rootOperatorNames[key] {
			q.Conditions = append(q.Conditions, FieldCondition{
				Path:           key,
				IsRootOperator: true,
				RawParam:       val,
			})
			continue
		}
		cond, err := parseCondition(val)
		if err != nil {
			return nil, err
		}
		q.Conditions = append(q.Conditions, FieldCondition{Path: key, Condition: cond})
	}
	return q, nil
}

// applyAndOrCoOccurrenceRule implements the idiosyncratic rewrite
// documented in the specification: when a top-level mapping carries both
// $and and $or, $or becomes the top-level combinator and $and is
// re-embedded as one more disjunct — { $or: [...original $or branches,
// { $and: [...original $and branches] }] } — with any other top-level
// keys left untouched (they remain ANDed against the combined result by
// virtue of staying as separate map entries).
func applyAndOrCoOccurrenceRule(m map[string]any) map[string]any {
	andRaw, hasAnd := m[opAnd]
	orRaw, hasOr := m[opOr]
	if !hasAnd || !hasOr {
		return m
	}

	orBranches, _ := orRaw.([]any)
	rewritten := make(map[string]any, len(m)-1)
	for k, v := range m {
		if k == opAnd || k == opOr {
			continue
		}
		rewritten[k] = v
	}
	rewritten[opOr] = append(append([]any{}, orBranches...), map[string]any{opAnd: andRaw})
	return rewritten
}

// parseCondition classifies a field's raw value into Literal, OperatorSet
// or Mixed, per rule 3 of the parser.
func parseCondition(raw any) (Condition, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Condition{Kind: Literal, LiteralValue: raw}, nil
	}

	hasDollar, hasPlain := false, false
	for k := range m {
		if strings.HasPrefix(k, "$") {
			hasDollar = true
		} else {
			hasPlain = true
		}
	}

	if !hasDollar {
		// Mapping with no $-prefixed keys: equality against the nested
		// mapping as a whole.
		return Condition{Kind: Literal, LiteralValue: raw}, nil
	}

	ops := make(map[string]any, len(m))
	var order []string
	var literal map[string]any
	for _, k := range sortedKeys(m) {
		v := m[k]
		if strings.HasPrefix(k, "$") {
			ops[k] = v
			order = append(order, k)
			continue
		}
		if literal == nil {
			literal = map[string]any{}
		}
		literal[k] = v
	}

	if hasPlain {
		return Condition{
			Kind:          Mixed,
			LiteralValue:  literal,
			Operators:     ops,
			OperatorOrder: order,
		}, nil
	}
	return Condition{Kind: OperatorSet, Operators: ops, OperatorOrder: order}, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
