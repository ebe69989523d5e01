// Package siftql evaluates MongoDB-style JSON queries against JSON-like
// documents in memory. Sift and CreateFilter are the two entry points
// most callers need; the query, operators, and internal/* packages hold
// the parser, operator registry, and comparison semantics underneath.
package siftql

import (
	"github.com/siftql/siftql/query"

	// blank-imported for its init() side effect: registering every
	// built-in operator into query.DefaultRegistry. Nothing in this
	// package calls into operators directly.
	_ "github.com/siftql/siftql/operators"
)

// Sift parses queryDoc, compiles it, and tests it against document in one
// call. Most callers filtering a single document, or evaluating many
// distinct queries against one document, want this.
func Sift(queryDoc any, document any) (bool, error) {
	q, err := query.Parse(queryDoc)
	if err != nil {
		return false, err
	}
	compiled, err := q.Compile()
	if err != nil {
		return false, err
	}
	return compiled.Test(document)
}

// CreateFilter parses and compiles queryDoc once and returns a predicate
// that can be applied to many documents without re-parsing. Per the
// error-handling design, a query that fails to compile still yields a
// usable filter: one that reports every document as non-matching rather
// than panicking or returning an error from every call site.
func CreateFilter(queryDoc any) func(document any) bool {
	q, err := query.Parse(queryDoc)
	if err != nil {
		return func(any) bool { return false }
	}
	compiled, err := q.Compile()
	if err != nil {
		return func(any) bool { return false }
	}
	return func(document any) bool {
		ok, err := compiled.Test(document)
		if err != nil {
			return false
		}
		return ok
	}
}

// Compile parses and compiles queryDoc, returning the CompiledQuery for
// callers that want to handle compile errors explicitly, reuse one
// compiled query across many Test calls, or inspect it before testing
// anything (sqlfilter and the collections scanners all use this form).
func Compile(queryDoc any) (*query.CompiledQuery, error) {
	q, err := query.Parse(queryDoc)
	if err != nil {
		return nil, err
	}
	return q.Compile()
}
