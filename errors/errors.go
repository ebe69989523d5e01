// Package errors defines the error taxonomy shared across the query
// engine: five kinds, each carrying a human-readable message, matching
// the error handling design of the engine's specification.
package errors

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/multierr"
)

// Kind classifies an Error.
type Kind int

const (
	// InvalidQuery marks a malformed query shape or operator parameter
	// (non-array $in, non-boolean $exists, divisor-zero $mod, an
	// uncompilable regex, an unknown BSON type number, ...).
	InvalidQuery Kind = iota
	// InvalidValue is reserved for value-side faults; no operator in this
	// package currently produces it.
	InvalidValue
	// UnsupportedOperation marks an operator name unknown at compile time,
	// or a feature-gated operator (e.g. $where in a build without the JS
	// evaluator) requested where it is unavailable.
	UnsupportedOperation
	// SerializationError marks an internal JSON conversion failure, e.g.
	// preparing a document for the $where runtime.
	SerializationError
	// EvaluationError marks a $where script failing to compile, execute,
	// or return a usable value, or other runtime communication failure.
	EvaluationError
)

func (k Kind) String() string {
	switch k {
	case InvalidQuery:
		return "InvalidQuery"
	case InvalidValue:
		return "InvalidValue"
	case UnsupportedOperation:
		return "UnsupportedOperation"
	case SerializationError:
		return "SerializationError"
	case EvaluationError:
		return "EvaluationError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by this module. It carries a
// Kind so callers can branch on error class with errors.As, alongside a
// human-readable Message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an Error with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given kind, looking through
// multierr-combined errors as well as plain wrapping.
func Is(err error, kind Kind) bool {
	for _, e := range multierr.Errors(err) {
		var se *Error
		if As(e, &se) && se.Kind == kind {
			return true
		}
	}
	return false
}

// As is a thin wrapper so callers don't need a separate stdlib errors
// import just to unwrap an *Error.
func As(err error, target **Error) bool {
	return stderrors.As(err, target)
}

// Combine aggregates zero or more errors into one. Nil entries are
// dropped; a single non-nil error is returned unwrapped. Used by the
// compiler when more than one key in an OperatorSet fails to resolve, so
// the caller sees every malformed operator in one pass instead of only
// the first.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}
