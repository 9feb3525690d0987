package value

import (
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/source"
)

// addReverse is a minimal stand-in for internal/operator's "+" reverse,
// used here to test the generic BinaryOp.force algorithm in isolation.
type addReverse struct{}

// Like the real reverse, it keeps integer operands integer.
func (addReverse) SolveLHS(rhs, target Value) (Value, bool) {
	return Int(target.AsNumber().I - rhs.AsNumber().I), true
}
func (addReverse) SolveRHS(lhs, target Value) (Value, bool) {
	return Int(target.AsNumber().I - lhs.AsNumber().I), true
}

func rangeAt(byteStart, byteEnd int) source.Range {
	return source.Range{Start: source.Location{Byte: byteStart}, End: source.Location{Byte: byteEnd}}
}

func TestRemoveOriginNeverProposesAnything(t *testing.T) {
	v := Int(25).WithOrigin(Literal{Range: rangeAt(0, 2)})
	stripped := v.RemoveOrigin()
	if _, ok := stripped.Force(Int(99)); ok {
		t.Fatalf("expected no proposal once origin is removed")
	}
}

func TestLiteralForceProducesSingle(t *testing.T) {
	v := Int(25).WithOrigin(Literal{Range: rangeAt(0, 2)})
	ch, ok := v.Force(Int(14))
	if !ok {
		t.Fatalf("expected a proposal")
	}
	single, ok := ch.(source.Single)
	if !ok {
		t.Fatalf("expected Single, got %T", ch)
	}
	if single.Replacement != "14" {
		t.Fatalf("expected replacement %q, got %q", "14", single.Replacement)
	}
}

func TestBinaryOpForceProducesTwoBranchOr(t *testing.T) {
	lhs := Int(25).WithOrigin(Literal{Range: rangeAt(0, 2)})
	rhs := Int(13).WithOrigin(Literal{Range: rangeAt(5, 7)})

	sum := Int(38).WithOrigin(BinaryOp{
		Op: "+", Lhs: lhs, Rhs: rhs, Range: rangeAt(0, 7), Reverse: addReverse{},
	})

	ch, ok := sum.Force(Int(27))
	if !ok {
		t.Fatalf("expected a proposal")
	}
	or, ok := ch.(source.Or)
	if !ok {
		t.Fatalf("expected Or, got %T", ch)
	}
	if len(or.Children) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(or.Children))
	}

	var replacements []string
	or.Visit(func(s source.Single) { replacements = append(replacements, s.Replacement) })
	want := map[string]bool{"14": true, "2": true}
	for _, r := range replacements {
		if !want[r] {
			t.Fatalf("unexpected replacement %q in %v", r, replacements)
		}
	}
}

func TestExternalFunctionWithNoReverseProposesNothing(t *testing.T) {
	arg := Int(0).WithOrigin(Literal{Range: rangeAt(0, 1)})
	result := Float(0).WithOrigin(ExternalFunction{
		Name: "sin", Args: NewVallist(arg), Range: rangeAt(0, 8), Reverse: nil,
	})
	if _, ok := result.Force(Float(1)); ok {
		t.Fatalf("expected no proposal when no reverse is registered")
	}
}

func TestMultipleOriginsCombinesSurvivingBranches(t *testing.T) {
	lhs := Int(25).WithOrigin(Literal{Range: rangeAt(0, 2)})
	rhs := Int(13).WithOrigin(Literal{Range: rangeAt(5, 7)})

	v := Int(25).WithOrigin(MultipleOrigins{List: []Origin{
		Literal{Range: rangeAt(0, 2)},
		lhs.origin,
		rhs.origin, // a Literal origin solves for any representable target, so this produces a branch too
	}})

	_, ok := v.Force(Int(99))
	if !ok {
		t.Fatalf("expected at least one surviving branch")
	}
}
