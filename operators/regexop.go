package operators

import (
	"regexp"

	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/query"
)

func registerRegex(reg *query.Registry) {
	reg.Register("$regex", func(param any) (query.Operation, error) {
		pattern, ok := param.(string)
		if !ok {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$regex requires a string parameter, got %T", param)
		}
		// Inline flag prefixes such as (?i), (?m), (?s) are native
		// regexp syntax and need no special handling: a sibling
		// $options key, if present, is accepted and ignored (see
		// DESIGN.md's open-question resolution).
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "invalid $regex pattern %q: %v", pattern, err)
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			s, ok := value.(string)
			if !ok {
				return false, nil
			}
			return re.MatchString(s), nil
		}), nil
	})

	// $options never appears without a sibling $regex in practice; register
	// it as an always-true no-op so an operator-set carrying both keys
	// compiles instead of failing with an unsupported-operation error.
	reg.Register("$options", func(param any) (query.Operation, error) {
		if _, ok := param.(string); !ok {
			return nil, sifterrors.Newf(sifterrors.InvalidQuery, "$options requires a string parameter, got %T", param)
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			return true, nil
		}), nil
	})
}
