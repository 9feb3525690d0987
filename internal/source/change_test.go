package source

import "testing"

func TestAlternativeUnwrapsSingleChild(t *testing.T) {
	s := Single{Range: Zero, Replacement: "1"}
	got := Alternative(s)
	if _, ok := got.(Single); !ok {
		t.Fatalf("expected Single, got %T", got)
	}
}

func TestAlternativeWrapsMultiple(t *testing.T) {
	a := Single{Range: Zero, Replacement: "1"}
	b := Single{Range: Zero, Replacement: "2"}
	got := Alternative(a, b)
	or, ok := got.(Or)
	if !ok {
		t.Fatalf("expected Or, got %T", got)
	}
	if len(or.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(or.Children))
	}
}

func TestCombineFlattensNestedAnd(t *testing.T) {
	a := Single{Range: Zero, Replacement: "1"}
	b := Single{Range: Zero, Replacement: "2"}
	c := Single{Range: Zero, Replacement: "3"}

	ab := Combine(a, b)
	abc := Combine(ab, c)

	and, ok := abc.(And)
	if !ok {
		t.Fatalf("expected And, got %T", abc)
	}
	if len(and.Children) != 3 {
		t.Fatalf("expected flattened 3 children, got %d", len(and.Children))
	}
}

func TestVisitVisitsAllLeaves(t *testing.T) {
	a := Single{Range: Zero, Replacement: "1"}
	b := Single{Range: Zero, Replacement: "2"}
	tree := Or{Children: []Change{a, And{Children: []Change{b}}}}

	var seen []string
	tree.Visit(func(s Single) { seen = append(seen, s.Replacement) })

	if len(seen) != 2 {
		t.Fatalf("expected 2 leaves visited, got %d: %v", len(seen), seen)
	}
}

func TestRangeContainsAndOverlaps(t *testing.T) {
	r := Range{Start: Location{Line: 1, Column: 1, Byte: 0}, End: Location{Line: 1, Column: 5, Byte: 4}}
	p := Location{Line: 1, Column: 2, Byte: 1}
	if !r.Contains(p) {
		t.Fatalf("expected range to contain %v", p)
	}

	other := Range{Start: Location{Byte: 4}, End: Location{Byte: 8}}
	if r.Overlaps(other) {
		t.Fatalf("half-open ranges sharing only an endpoint should not overlap")
	}

	overlapping := Range{Start: Location{Byte: 3}, End: Location{Byte: 8}}
	if !r.Overlaps(overlapping) {
		t.Fatalf("expected overlap")
	}
}
