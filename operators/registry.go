// Package operators implements the operator zoo: one compiled Operation
// per supported $-prefixed operator, registered into
// query.DefaultRegistry at package init so that importing this package
// (even with a blank import) is enough to make every operator available
// to query.Parse/Compile.
//
// Grounded on mapping/operators.go's map-of-maps operator registry in
// the teacher repository (there: operator name -> per-database string;
// here: operator name -> Operation factory) and on
// engine/builders/redis/filters.go's category-routed test functions
// (matchComparison/matchMultiValue/matchRange), which are the direct
// ancestor of this package's per-operator Test implementations.
package operators

import "github.com/siftql/siftql/query"

func init() {
	RegisterAll(query.DefaultRegistry)
}

// RegisterAll installs every built-in operator into reg. Exposed so
// embedders can give a custom registry the full built-in set. The
// per-family register functions are unexported, so this package offers
// no way to install only part of the set.
func RegisterAll(reg *query.Registry) {
	registerComparison(reg)
	registerSet(reg)
	registerExists(reg)
	registerType(reg)
	registerRegex(reg)
	registerMod(reg)
	registerSize(reg)
	registerElemMatch(reg)
	registerLogical(reg)
	registerWhere(reg)
}
