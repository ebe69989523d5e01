// Package query implements the parser, compiler and evaluator for the
// document filter language: translating a declarative JSON query into an
// executable tree of field-scoped operations and running that tree
// against a document.
//
// Grounded on the teacher's engine/parser/ast/nodes.go (AST node shape)
// and engine/parser/crud.go (condition-parsing control flow), generalized
// from a hand-lexed SQL-ish DSL to an already-JSON-decoded query map.
package query

// ConditionKind classifies how a condition's raw value was shaped, per
// the Literal/OperatorSet/Mixed rules of the specification.
type ConditionKind int

const (
	// Literal is a concrete value tested with implicit equality.
	Literal ConditionKind = iota
	// OperatorSet is a map whose keys are all $-prefixed.
	OperatorSet
	// Mixed is a map with both $-prefixed and plain keys: the plain keys
	// form a single nested-literal condition, ANDed with the operators.
	Mixed
)

// Condition is one parsed field-path condition (or the raw parameter of
// a top-level logical/where operator).
type Condition struct {
	Kind ConditionKind

	// LiteralValue holds the full value for Kind==Literal, or the
	// sub-mapping of non-$ keys for Kind==Mixed.
	LiteralValue any

	// Operators holds operator name -> parameter pairs for
	// Kind==OperatorSet or Kind==Mixed. Keys always start with "$".
	Operators map[string]any

	// OperatorOrder lists the operator keys in sorted order, so that
	// repeated compilation of the same query.Query is deterministic even
	// though Go map iteration order is not.
	OperatorOrder []string
}

// FieldCondition pairs a path (or, for root operators, an operator name)
// with its parsed condition.
type FieldCondition struct {
	// Path is a dot-notation field path, or — when IsRootOperator is
	// true — one of $and, $or, $not, $nor, $where.
	Path string

	// IsRootOperator is true when Path names a top-level logical/where
	// operator rather than a field. Root operator conditions carry their
	// raw parameter value directly in RawParam, not wrapped in a
	// Condition, since they are never field-scoped.
	IsRootOperator bool
	RawParam       any

	Condition Condition
}

// Query is the structured tree produced by Parse: an ordered list of
// root-level conditions, implicitly ANDed (invariant 3 of the spec).
type Query struct {
	Conditions []FieldCondition
}
