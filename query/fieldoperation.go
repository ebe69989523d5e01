package query

import "github.com/siftql/siftql/internal/path"

// Test implements Operation for FieldOperation. doc is walked along Path;
// Inner is invoked once per candidate leaf with that leaf's value, key
// and parent, and the overall result is true iff any leaf's test is true
// (short-circuiting on the first true result or the first error, per the
// specification's error-propagation policy).
func (fo *FieldOperation) Test(doc any, _ string, _ any, _ bool) (bool, error) {
	if fo.Path == "" {
		return fo.Inner.Test(doc, "", nil, true)
	}

	for _, leaf := range path.Walk(doc, fo.Path) {
		ok, err := fo.Inner.Test(leaf.Value, leaf.Key, leaf.Parent, leaf.Found)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
