// Package values implements the typed equality, ordering and type-family
// classification rules shared by every operator: the leaf-level semantics
// the rest of the engine builds on.
//
// Grounded on engine/builders/redis/filters.go's matchComparison /
// compareNumeric category-routing helpers in the teacher repository,
// generalized from string-typed Redis hash values to dynamic JSON values.
package values

import (
	"math"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const epsilon = 1e-9

// Ordering is the three-way result of Compare.
type Ordering int

const (
	// Incomparable means no meaningful ordering exists between the two
	// values (type mismatch, array/object/null operand, unparseable
	// strings that aren't both timestamps).
	Incomparable Ordering = iota
	Less
	Equal
	Greater
)

var collator = collate.New(language.Und)

// Equal implements the structural, type-aware equality used by $eq/$ne
// and by $in/$all's element comparisons.
//
// null == null; booleans by identity; numbers as integers when both are
// integral, otherwise as doubles within epsilon; strings byte-wise;
// arrays/maps recursively, order-sensitive for arrays and key-set +
// value-sensitive for maps. A number is never equal to a string, and 0 is
// never equal to false.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	}

	an, aIsNum := asFloat(a)
	bn, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		if isIntegral(an) && isIntegral(bn) {
			return int64(an) == int64(bn)
		}
		return math.Abs(an-bn) <= epsilon
	}
	return false
}

// Compare implements the three-way ordering used by $gt/$gte/$lt/$lte.
//
// Numeric-vs-numeric compares as numbers. String-vs-string first tries
// RFC 3339 timestamp parsing on both sides (round-tripped through a
// protobuf Timestamp so the final comparison is instant-vs-instant, not
// string-vs-string, once both sides parse); on any parse failure it falls
// back to collated lexicographic order. Any other combination —
// including one numeric and one non-numeric operand, or either operand
// being an array, map, or null — is Incomparable.
func Compare(a, b any) Ordering {
	if an, aok := asFloat(a); aok {
		if bn, bok := asFloat(b); bok {
			return compareFloat(an, bn)
		}
		return Incomparable
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		at, aerr := parseInstant(as)
		bt, berr := parseInstant(bs)
		if aerr == nil && berr == nil {
			return compareFloat(float64(at.AsTime().UnixNano()), float64(bt.AsTime().UnixNano()))
		}
		switch c := collator.CompareString(as, bs); {
		case c < 0:
			return Less
		case c > 0:
			return Greater
		default:
			return Equal
		}
	}

	return Incomparable
}

func compareFloat(a, b float64) Ordering {
	switch {
	case math.Abs(a-b) <= epsilon:
		return Equal
	case a < b:
		return Less
	default:
		return Greater
	}
}

func parseInstant(s string) (*timestamppb.Timestamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
	}
	return timestamppb.New(t), nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

// Family classifies a dynamic value into the JSON type families $type
// matches against: "double", "string", "object", "array", "bool",
// "null", "int"/"long" (both reported as "number" candidates), plus the
// generic "number" alias.
func Family(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case float64, float32:
		return "double"
	case int, int32:
		return "int"
	case int64:
		return "long"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether v's Family is one of the numeric families.
func IsNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}

// Length returns the element/byte count of v for $size, and whether v is
// array- or string-shaped at all.
func Length(v any) (int, bool) {
	switch vv := v.(type) {
	case []any:
		return len(vv), true
	case string:
		return len(vv), true
	default:
		return 0, false
	}
}
