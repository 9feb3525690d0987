package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/source"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

func TestEvaluateSimpleArithmetic(t *testing.T) {
	d := New("return 25 + 13")
	r := d.Evaluate()
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if !r.Value.IsNumber() || r.Value.AsNumber().Float() != 38 {
		t.Fatalf("expected 38, got %#v", r.Value)
	}
}

func TestForceArithmeticYieldsOrOfTwoSingles(t *testing.T) {
	d := New("return 25 + 13")
	r := d.Evaluate()
	change, ok := r.Value.Force(value.Int(27))
	if !ok {
		t.Fatalf("expected a force proposal")
	}
	or, isOr := change.(source.Or)
	if !isOr || len(or.Children) != 2 {
		t.Fatalf("expected an Or of two branches, got %#v", change)
	}
}

func TestParseErrorSurfacesWithoutPanicking(t *testing.T) {
	d := New("return +")
	r := d.Evaluate()
	if r.Err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestPrintWritesToConfiguredStdout(t *testing.T) {
	var buf bytes.Buffer
	d := New(`for i=1,3 do print(i) end; return i`)
	d.Stdout = &buf
	r := d.Evaluate()
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if !r.Value.IsNil() {
		t.Fatalf("expected the for-loop local to be out of scope (Nil), got %#v", r.Value)
	}
	if buf.String() != "1\n2\n3\n" {
		t.Fatalf("unexpected stdout: %q", buf.String())
	}
}

func TestApplySourceChangesSplicesDescendingOffsets(t *testing.T) {
	d := New("return 25 + 13")
	r := d.Evaluate()
	change, ok := r.Value.Force(value.Int(27))
	if !ok {
		t.Fatalf("expected a force proposal")
	}
	or := change.(source.Or)
	d.ApplySourceChanges(or.Children[0])
	r2 := d.Evaluate()
	if r2.Err != nil {
		t.Fatalf("unexpected error after applying source change: %v", r2.Err)
	}
	if !strings.Contains(d.Source(), "+") {
		t.Fatalf("expected the rewritten source to still contain a +, got %q", d.Source())
	}
	if r2.Value.AsNumber().Float() != 27 {
		t.Fatalf("expected re-evaluation to yield 27, got %#v", r2.Value)
	}
}

func TestMathSinForceScenario(t *testing.T) {
	d := New("return math.sin(0)")
	r := d.Evaluate()
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	_, ok := r.Value.Force(value.Float(1))
	if !ok {
		t.Fatalf("expected a force proposal for sin(0) -> 1")
	}
}

func TestVisitLimitAbortsUnboundedLoop(t *testing.T) {
	d := New("while true do end")
	r := d.Evaluate()
	if r.Err == nil {
		t.Fatalf("expected a VisitLimit error")
	}
}
