package path

import "testing"

func TestWalkSimple(t *testing.T) {
	doc := map[string]any{"age": float64(30)}
	leaves := Walk(doc, "age")
	if len(leaves) != 1 || leaves[0].Value != float64(30) || !leaves[0].Found {
		t.Fatalf("unexpected leaves: %+v", leaves)
	}
}

func TestWalkNested(t *testing.T) {
	doc := map[string]any{
		"user": map[string]any{
			"profile": map[string]any{
				"salary": float64(85000),
			},
		},
	}
	leaves := Walk(doc, "user.profile.salary")
	if len(leaves) != 1 || leaves[0].Value != float64(85000) {
		t.Fatalf("unexpected leaves: %+v", leaves)
	}
}

func TestWalkArrayIndex(t *testing.T) {
	doc := map[string]any{"tags": []any{"a", "b", "c"}}
	leaves := Walk(doc, "tags.1")
	if len(leaves) != 1 || leaves[0].Value != "b" {
		t.Fatalf("unexpected leaves: %+v", leaves)
	}
}

func TestWalkArrayFanOut(t *testing.T) {
	doc := map[string]any{
		"reviews": []any{
			map[string]any{"rating": float64(5)},
			map[string]any{"rating": float64(2)},
		},
	}
	found := AnyMatch(doc, "reviews.rating", func(l Leaf) bool {
		r, ok := l.Value.(float64)
		return ok && r >= float64(4)
	})
	if !found {
		t.Fatal("expected fan-out match on rating >= 4")
	}
}

func TestWalkAbsent(t *testing.T) {
	doc := map[string]any{"name": "Alice"}
	leaves := Walk(doc, "age")
	if len(leaves) != 1 || leaves[0].Found {
		t.Fatalf("expected absent leaf, got %+v", leaves)
	}
}

func TestSplitEmptyPath(t *testing.T) {
	if segs := Split(""); segs != nil {
		t.Fatalf("expected nil segments, got %v", segs)
	}
}
