// Package path implements dot-notation field path traversal over dynamic
// JSON values, including the array-descent fan-out rule: a non-numeric
// path segment encountered at an array position is resolved against
// every element of that array, and a positive result on any one of them
// is a positive result for the whole path.
package path

import "strconv"

// Leaf is one candidate value reached by walking a path, together with
// the key and parent needed to distinguish "present and null" from
// "absent" for operators like $exists.
type Leaf struct {
	Value  any
	Key    string
	Parent any
	// Found is false when the path segment does not exist in its parent
	// at all (as opposed to existing and holding nil).
	Found bool
}

// Split breaks a dot-notation path into its segments. An empty path
// yields no segments.
func Split(p string) []string {
	if p == "" {
		return nil
	}
	segs := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '.' {
			segs = append(segs, p[start:i])
			start = i + 1
		}
	}
	segs = append(segs, p[start:])
	return segs
}

// Walk resolves every leaf reachable from doc by following path. With an
// empty path it returns doc itself as the sole leaf (Found=true, no
// parent). Each leaf reports whether its final segment was actually
// present in its immediate parent.
func Walk(doc any, p string) []Leaf {
	segs := Split(p)
	if len(segs) == 0 {
		return []Leaf{{Value: doc, Found: true}}
	}
	return walkSegments(doc, segs, "", nil, true)
}

func walkSegments(cur any, segs []string, key string, parent any, parentHasKey bool) []Leaf {
	if len(segs) == 0 {
		return []Leaf{{Value: cur, Key: key, Parent: parent, Found: parentHasKey}}
	}

	seg := segs[0]
	rest := segs[1:]

	switch node := cur.(type) {
	case map[string]any:
		child, ok := node[seg]
		if !ok {
			return []Leaf{{Value: nil, Key: seg, Parent: node, Found: false}}
		}
		return walkSegments(child, rest, seg, node, true)

	case []any:
		if idx, err := strconv.Atoi(seg); err == nil {
			if idx < 0 || idx >= len(node) {
				return []Leaf{{Value: nil, Key: seg, Parent: node, Found: false}}
			}
			return walkSegments(node[idx], rest, seg, node, true)
		}
		// Non-numeric segment against an array: fan out across elements.
		var leaves []Leaf
		for _, elem := range node {
			leaves = append(leaves, walkSegments(elem, segs, key, parent, parentHasKey)...)
		}
		if leaves == nil {
			// Empty array: no candidate leaves, field effectively absent.
			return []Leaf{{Value: nil, Key: seg, Parent: node, Found: false}}
		}
		return leaves

	default:
		// Scalar (or nil) encountered with path remaining: nothing to
		// descend into.
		return []Leaf{{Value: nil, Key: seg, Parent: nil, Found: false}}
	}
}

// AnyMatch reports whether test returns true for at least one leaf
// reachable from doc via path. This is the "positive result on any leaf
// is a positive result for the path" rule.
func AnyMatch(doc any, p string, test func(Leaf) bool) bool {
	for _, leaf := range Walk(doc, p) {
		if test(leaf) {
			return true
		}
	}
	return false
}
