package operators

import (
	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/internal/values"
	"github.com/siftql/siftql/query"
)

// bsonTypeNumbers maps the BSON type codes the specification requires
// ($type accepting an integer parameter) to the JSON type family names
// internal/values.Family produces. Grounded on mapping/types.go's
// per-database type table in the teacher repository, adapted from
// "universal type name -> per-database type string" to
// "BSON type number -> JSON type family".
var bsonTypeNumbers = map[int64]string{
	1:  "double",
	2:  "string",
	3:  "object",
	4:  "array",
	8:  "bool",
	10: "null",
	16: "int",
	18: "long",
}

func registerType(reg *query.Registry) {
	reg.Register("$type", func(param any) (query.Operation, error) {
		wantFamily, err := resolveTypeParam(param)
		if err != nil {
			return nil, err
		}
		return query.OperationFunc(func(value any, _ string, _ any, _ bool) (bool, error) {
			if wantFamily == "number" {
				return values.IsNumeric(value), nil
			}
			return values.Family(value) == wantFamily, nil
		}), nil
	})
}

// resolveTypeParam accepts either a type name string ("number" matches
// any numeric family; any other unrecognized name compiles but never
// matches, per the operator contract table) or a BSON type number.
func resolveTypeParam(param any) (family string, err error) {
	switch p := param.(type) {
	case string:
		return p, nil
	case float64:
		code := int64(p)
		fam, ok := bsonTypeNumbers[code]
		if !ok {
			return "", sifterrors.Newf(sifterrors.InvalidQuery, "unknown BSON type number %d", code)
		}
		return fam, nil
	default:
		return "", sifterrors.Newf(sifterrors.InvalidQuery, "$type requires a string or integer parameter, got %T", param)
	}
}
