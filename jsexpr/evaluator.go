// Package jsexpr evaluates $where JavaScript expressions against a
// document using goja, the only embeddable JS engine present anywhere
// in the dependency corpus this module was built from.
package jsexpr

import (
	"fmt"

	"github.com/dop251/goja"

	sifterrors "github.com/siftql/siftql/errors"
)

// Evaluator runs a single compiled $where expression. It is safe for
// concurrent use: each Test call builds its own goja.Runtime, so no state
// is shared across concurrent or sequential evaluations.
type Evaluator struct {
	program *goja.Program
}

// NewEvaluator compiles expr (a single JS expression, exactly as written
// in a $where clause; a function body made of statements does not
// compile) once, up front, so repeated calls to
// Test only pay for constructing a runtime and running the already
// compiled bytecode.
func NewEvaluator(expr string) (*Evaluator, error) {
	program, err := goja.Compile("$where", wrap(expr), false)
	if err != nil {
		return nil, sifterrors.Newf(sifterrors.EvaluationError, "invalid $where expression: %v", err)
	}
	return &Evaluator{program: program}, nil
}

// Test runs the compiled expression against a fresh goja.Runtime, with
// document bound as the expression's `this`, and coerces the JS result
// to a bool. A new runtime per call means concurrent Test calls on the
// same Evaluator (and therefore on the same compiled query) never touch
// shared JS state.
func (e *Evaluator) Test(document any) (bool, error) {
	vm := goja.New()
	result, err := vm.RunProgram(e.program)
	if err != nil {
		return false, sifterrors.Newf(sifterrors.EvaluationError, "$where evaluation failed: %v", err)
	}
	fn, ok := goja.AssertFunction(result)
	if !ok {
		return false, sifterrors.New(sifterrors.EvaluationError, "$where expression did not produce a callable")
	}
	out, err := fn(vm.ToValue(document))
	if err != nil {
		return false, sifterrors.Newf(sifterrors.EvaluationError, "$where evaluation failed: %v", err)
	}
	return truthy(out), nil
}

// wrap turns a bare $where expression into a function returning it, which
// can be invoked with an explicit `this` binding via Call.
func wrap(expr string) string {
	return fmt.Sprintf("(function() { return (%s); })", expr)
}

// truthy mirrors JavaScript's own truthiness rules: booleans pass
// through, numbers are false only at zero or NaN, strings are false
// only when empty, and null/undefined are always false. Everything
// else — objects, arrays, functions — is truthy.
func truthy(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	return v.ToBoolean()
}
