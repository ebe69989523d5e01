package query

import sifterrors "github.com/siftql/siftql/errors"

// CompiledQuery is the compiled form of a Query: a flat list of
// root-level Operations, implicitly ANDed (invariant 3). A compiled
// query with zero operations matches every document (invariant 2).
type CompiledQuery struct {
	operations []Operation
}

// Compile walks q and produces a CompiledQuery using the DefaultRegistry.
func (q *Query) Compile() (*CompiledQuery, error) {
	return q.CompileWith(DefaultRegistry)
}

// CompileWith compiles q using an explicit registry, for callers that
// need a reduced or custom operator set (e.g. excluding $where in a
// build without a JS evaluator). reg resolves only the operators named
// directly in q: the sub-queries inside $and/$or/$nor/$not/$elemMatch
// parameters are compiled through ParseAndCompile, which always uses
// DefaultRegistry.
func (q *Query) CompileWith(reg *Registry) (*CompiledQuery, error) {
	c := &compilerState{reg: reg}
	for _, fc := range q.Conditions {
		if err := c.compileFieldCondition(fc); err != nil {
			return nil, err
		}
	}
	return &CompiledQuery{operations: c.ops}, nil
}

type compilerState struct {
	reg *Registry
	ops []Operation
}

func (c *compilerState) compileFieldCondition(fc FieldCondition) error {
	if fc.IsRootOperator {
		op, err := c.reg.Build(fc.Path, fc.RawParam)
		if err != nil {
			return err
		}
		c.ops = append(c.ops, op)
		return nil
	}
	return c.compileField(fc.Path, fc.Condition)
}

// compileField appends one or more FieldOperations bound to path, per
// the condition kind. Every operator produced here is wrapped in a
// FieldOperation — unlike root-level operator conditions, an operator
// appearing inside a field's condition is always field-scoped, even when
// its name is one the root treats specially ($and/$or/$nor/$where), per
// the compiler rule: "if the operator is $and|$or|$nor|$where at the
// root (i.e., the condition key itself was the operator), append
// directly; otherwise wrap in a FieldOperation bound to path."
func (c *compilerState) compileField(path string, cond Condition) error {
	switch cond.Kind {
	case Literal:
		op, err := c.reg.Build("$eq", cond.LiteralValue)
		if err != nil {
			return err
		}
		c.ops = append(c.ops, NewFieldOperation(path, op))
		return nil

	case OperatorSet:
		return c.compileOperatorSet(path, cond)

	case Mixed:
		eqOp, err := c.reg.Build("$eq", cond.LiteralValue)
		if err != nil {
			return err
		}
		c.ops = append(c.ops, NewFieldOperation(path, eqOp))
		return c.compileOperatorSet(path, cond)

	default:
		return nil
	}
}

// compileOperatorSet builds every operator in cond, even past the first
// failure, so a caller with several malformed keys in one OperatorSet
// sees all of them in one pass (sifterrors.Combine) rather than only the
// first — the same reason a single failing key still lets the rest of
// the set report their own errors instead of aborting silently.
func (c *compilerState) compileOperatorSet(path string, cond Condition) error {
	var errs []error
	for _, name := range cond.OperatorOrder {
		op, err := c.reg.Build(name, cond.Operators[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.ops = append(c.ops, NewFieldOperation(path, op))
	}
	if len(errs) > 0 {
		return sifterrors.Combine(errs...)
	}
	return nil
}

// Test evaluates the compiled query against document, short-circuiting at
// the first false result or the first error.
func (cq *CompiledQuery) Test(document any) (bool, error) {
	for _, op := range cq.operations {
		ok, err := op.Test(document, "", nil, true)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ParseAndCompile parses and compiles raw in one step, using the
// DefaultRegistry. This is what logical operators ($and/$or/$nor/$not)
// and $elemMatch use to compile their sub-query parameters, and is the
// direct analogue of the top-level Sift/CreateFilter entry points.
func ParseAndCompile(raw any) (*CompiledQuery, error) {
	q, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return q.Compile()
}
