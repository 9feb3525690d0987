package environment

import (
	"bytes"
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

func TestGetUndefinedIsNil(t *testing.T) {
	e := New()
	if !e.Get("missing").IsNil() {
		t.Fatalf("expected undefined name to read as nil")
	}
}

func TestDeclareLocalShadowsOuter(t *testing.T) {
	e := New()
	e.Add("x", value.Int(1))
	e.PushFrame()
	e.DeclareLocal("x", value.Int(2))

	if got := e.Get("x"); got.AsNumber().I != 2 {
		t.Fatalf("expected inner local to shadow outer, got %v", got)
	}
	e.PopFrame()
	if got := e.Get("x"); got.AsNumber().I != 1 {
		t.Fatalf("expected outer binding restored after pop, got %v", got)
	}
}

func TestAssignWritesInnermostExistingBinding(t *testing.T) {
	e := New()
	e.Add("x", value.Int(1))
	e.PushFrame()
	e.Assign("x", value.Int(99)) // no local "x" declared here, walks out to global
	if got := e.Get("x"); got.AsNumber().I != 99 {
		t.Fatalf("expected assign to reach the existing global binding, got %v", got)
	}
}

func TestAssignToUndeclaredNameCreatesGlobal(t *testing.T) {
	e := New()
	e.PushFrame()
	e.Assign("y", value.Int(7))
	e.PopFrame()
	if got := e.Get("y"); got.AsNumber().I != 7 {
		t.Fatalf("expected implicit global creation, got %v", got)
	}
}

func TestSizeCountsOnlyGlobals(t *testing.T) {
	e := New()
	e.Add("a", value.Int(1))
	e.Add("b", value.Int(2))
	e.PushFrame()
	e.DeclareLocal("c", value.Int(3))
	if e.Size() != 2 {
		t.Fatalf("expected Size to count only globals, got %d", e.Size())
	}
}

func TestSetStreamRejectsNil(t *testing.T) {
	e := New()
	if err := e.SetStdout(nil); err != ErrNilStream {
		t.Fatalf("expected ErrNilStream, got %v", err)
	}
	var buf bytes.Buffer
	if err := e.SetStdout(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEqualComparesOnlyGlobals(t *testing.T) {
	a := New()
	a.Add("x", value.Int(1))
	b := New()
	b.Add("x", value.Int(1))
	b.PushFrame()
	b.DeclareLocal("y", value.Int(2))

	if !Equal(a, b) {
		t.Fatalf("expected environments equal globals to compare equal regardless of transient frames")
	}
}

func TestCapturedFrameSurvivesPop(t *testing.T) {
	e := New()
	e.PushFrame()
	e.DeclareLocal("x", value.Int(42))
	captured := e.CaptureFrame()
	e.PopFrame()

	view := e.WithFrame(captured)
	if got := view.Get("x"); got.AsNumber().I != 42 {
		t.Fatalf("expected captured frame to still resolve x, got %v", got)
	}
}
