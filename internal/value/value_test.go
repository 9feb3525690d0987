package value

import (
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
)

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{Bool(false), false},
		{Bool(true), true},
		{Int(0), true},
		{String(""), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Fatalf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualityIgnoresOrigin(t *testing.T) {
	a := Int(5).WithOrigin(Literal{})
	b := Int(5)
	if !Equal(a, b) {
		t.Fatalf("expected equal values regardless of origin")
	}
}

func TestTableIdentitySharedAcrossCopies(t *testing.T) {
	arena := allocator.New()
	t1 := NewTable(arena)
	t1.RawSet(String("x"), Int(1))

	t2 := t1 // "copy" in host just copies the pointer/handle
	t2.RawSet(String("x"), Int(2))

	if t1.RawGet(String("x")).AsNumber().I != 2 {
		t.Fatalf("mutation through t2 should be visible via t1")
	}
	if !t1.Equal(t2) {
		t.Fatalf("expected identity equality for shared handle")
	}
}

func TestDistinctTablesAreNotEqual(t *testing.T) {
	arena := allocator.New()
	t1 := NewTable(arena)
	t2 := NewTable(arena)
	if t1.Equal(t2) {
		t.Fatalf("expected distinct tables to compare unequal")
	}
}

func TestToLiteralRendersScalars(t *testing.T) {
	cases := []Value{Nil, Bool(true), Int(42), Float(3.5), String("hi")}
	for _, v := range cases {
		lit, err := v.ToLiteral()
		if err != nil {
			t.Fatalf("ToLiteral(%v) errored: %v", v, err)
		}
		if lit == "" {
			t.Fatalf("expected non-empty literal for %v", v)
		}
	}
}

func TestSelfRecursiveTableIsNotRepresentable(t *testing.T) {
	arena := allocator.New()
	tbl := NewTable(arena)
	tbl.RawSet(String("self"), TableValue(tbl))

	_, err := TableValue(tbl).ToLiteral()
	if err == nil {
		t.Fatalf("expected NotRepresentable for a self-recursive table")
	}
	if _, ok := err.(*NotRepresentable); !ok {
		t.Fatalf("expected *NotRepresentable, got %T", err)
	}
}

func TestFunctionNotRepresentable(t *testing.T) {
	fn := FunctionValue(nativeStub{})
	_, err := fn.ToLiteral()
	if err == nil {
		t.Fatalf("expected NotRepresentable for a function value")
	}
}

type nativeStub struct{}

func (nativeStub) Name() string                        { return "stub" }
func (nativeStub) Call(args Vallist) (Vallist, error) { return nil, nil }

func TestTableBorder(t *testing.T) {
	arena := allocator.New()
	tbl := NewTable(arena)
	tbl.RawSet(Int(1), Int(10))
	tbl.RawSet(Int(2), Int(20))
	tbl.RawSet(Int(3), Int(30))
	if got := tbl.Border(); got != 3 {
		t.Fatalf("expected border 3, got %d", got)
	}

	empty := NewTable(arena)
	if got := empty.Border(); got != 0 {
		t.Fatalf("expected border 0 for empty table, got %d", got)
	}
}
