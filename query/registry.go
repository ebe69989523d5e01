package query

import (
	"fmt"
	"sync"

	sifterrors "github.com/siftql/siftql/errors"
)

// Factory builds a compiled Operation from an operator's raw parameter
// value. Factories are pure: the same parameter always compiles to
// behaviorally identical Operations.
type Factory func(param any) (Operation, error)

// Registry maps operator names to the factories that build their
// compiled form. A process-wide DefaultRegistry is populated by the
// operators package's init(), following the same registry-of-factories
// discipline as the teacher's mapping.OperatorMap (there, operator name
// -> per-database string; here, operator name -> Operation constructor).
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry. Most callers want
// DefaultRegistry instead; NewRegistry exists for tests and for embedders
// who want a reduced or custom operator set.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name. name must start with
// "$", per invariant 1 of the specification.
func (r *Registry) Register(name string, f Factory) {
	if len(name) == 0 || name[0] != '$' {
		panic(fmt.Sprintf("query: operator name %q must start with $", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get looks up the factory for name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Build resolves name to a Factory and invokes it, converting a missing
// operator into an UnsupportedOperation error per the error taxonomy.
func (r *Registry) Build(name string, param any) (Operation, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, sifterrors.Newf(sifterrors.UnsupportedOperation, "unknown operator %q", name)
	}
	return f(param)
}

// DefaultRegistry is the process-wide registry populated at startup by
// the operators package (see operators.init). Compile uses it unless a
// caller passes a different Registry to Query.CompileWith.
var DefaultRegistry = NewRegistry()
