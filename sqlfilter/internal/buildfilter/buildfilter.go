// Package buildfilter holds the document-shaping helpers shared by the
// postgres, mysql and ansi SQL-WHERE-clause adapters: each dialect parses
// its own AST, but they all bottom out in the same MongoDB-style query
// documents that the query package already knows how to compile.
package buildfilter

// ComparisonOperator maps a SQL comparison token to the query operator
// name, the same table the teacher's mapping.OperatorMap keeps per
// target dialect, narrowed here to the one target every adapter compiles
// down to.
var ComparisonOperator = map[string]string{
	"=":  "$eq",
	"<>": "$ne",
	"!=": "$ne",
	">":  "$gt",
	">=": "$gte",
	"<":  "$lt",
	"<=": "$lte",
}

// Equal builds a bare-literal equality clause: {path: value}.
func Equal(path string, value any) map[string]any {
	return map[string]any{path: value}
}

// Operator builds a single-operator clause: {path: {opName: value}}.
func Operator(path, opName string, value any) map[string]any {
	return map[string]any{path: map[string]any{opName: value}}
}

// Range builds a two-operator clause for BETWEEN-shaped conditions:
// {path: {lowOp: low, highOp: high}}.
func Range(path, lowOp string, low any, highOp string, high any) map[string]any {
	return map[string]any{path: map[string]any{lowOp: low, highOp: high}}
}

// And combines clauses under $and. A single clause is returned unwrapped
// since {$and: [c]} and c are equivalent but the latter compiles to one
// fewer Operation.
func And(clauses ...map[string]any) map[string]any {
	clauses = compact(clauses)
	if len(clauses) == 1 {
		return clauses[0]
	}
	arr := make([]any, len(clauses))
	for i, c := range clauses {
		arr[i] = c
	}
	return map[string]any{"$and": arr}
}

// Or combines clauses under $or.
func Or(clauses ...map[string]any) map[string]any {
	clauses = compact(clauses)
	if len(clauses) == 1 {
		return clauses[0]
	}
	arr := make([]any, len(clauses))
	for i, c := range clauses {
		arr[i] = c
	}
	return map[string]any{"$or": arr}
}

// Not wraps clause in $not, using the root-level re-parse form.
func Not(clause map[string]any) map[string]any {
	return map[string]any{"$not": clause}
}

func compact(clauses []map[string]any) []map[string]any {
	out := clauses[:0]
	for _, c := range clauses {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
