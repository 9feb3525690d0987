package builtins

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

func newEnv() *environment.Environment {
	env := environment.New()
	arena := allocator.New()
	Register(env, arena)
	return env
}

func TestPrintWritesTabSeparatedLine(t *testing.T) {
	env := newEnv()
	var buf bytes.Buffer
	env.SetStdout(&buf)
	printFn := env.Get("print").AsFunction()
	_, err := printFn.Call(value.NewVallist(value.Int(1), value.String("x")))
	if err != nil {
		t.Fatalf("print returned error: %v", err)
	}
	if got := buf.String(); got != "1\tx\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTonumberParsesIntAndFloat(t *testing.T) {
	env := newEnv()
	tonumber := env.Get("tonumber").AsFunction()
	r, _ := tonumber.Call(value.NewVallist(value.String("42")))
	if !r.First().IsNumber() || r.First().AsNumber().I != 42 || !r.First().AsNumber().IsInt {
		t.Fatalf("expected int 42, got %#v", r.First())
	}
	r, _ = tonumber.Call(value.NewVallist(value.String("3.5")))
	if r.First().AsNumber().F != 3.5 {
		t.Fatalf("expected float 3.5, got %#v", r.First())
	}
	r, _ = tonumber.Call(value.NewVallist(value.String("nope")))
	if !r.First().IsNil() {
		t.Fatalf("expected nil for unparsable string, got %#v", r.First())
	}
}

func TestMathSinForceReversesViaAsin(t *testing.T) {
	env := newEnv()
	sin := env.Get("math.sin").AsFunction()
	r, err := sin.Call(value.NewVallist(value.Float(0).WithOrigin(value.Literal{})))
	if err != nil {
		t.Fatalf("sin(0) returned error: %v", err)
	}
	change, ok := r.First().Force(value.Float(1))
	if !ok {
		t.Fatalf("expected a force proposal for sin(0) -> 1")
	}
	if change == nil {
		t.Fatalf("expected non-nil SourceChange")
	}
}

func TestHashHasNoForceProposal(t *testing.T) {
	env := newEnv()
	sha := env.Get("crypto.sha256").AsFunction()
	r, err := sha.Call(value.NewVallist(value.String("hello")))
	if err != nil {
		t.Fatalf("sha256 returned error: %v", err)
	}
	if !strings.HasPrefix(r.First().AsString(), "2cf24dba") {
		t.Fatalf("unexpected sha256 digest: %s", r.First().AsString())
	}
	if _, ok := r.First().Force(value.String("anything")); ok {
		t.Fatalf("expected no force proposal for a hash result")
	}
}

func TestIpairsIteratesInOrder(t *testing.T) {
	env := newEnv()
	arena := allocator.New()
	tbl := value.NewTable(arena)
	tbl.RawSet(value.Int(1), value.String("a"))
	tbl.RawSet(value.Int(2), value.String("b"))
	ipairs := env.Get("ipairs").AsFunction()
	r, err := ipairs.Call(value.NewVallist(value.TableValue(tbl)))
	if err != nil {
		t.Fatalf("ipairs error: %v", err)
	}
	iter := r.Get(0).AsFunction()
	state := r.Get(1)
	ctl := r.Get(2)
	var got []string
	for {
		step, err := iter.Call(value.NewVallist(state, ctl))
		if err != nil {
			t.Fatalf("iterator error: %v", err)
		}
		if step.First().IsNil() {
			break
		}
		ctl = step.Get(0)
		got = append(got, step.Get(1).AsString())
	}
	if strings.Join(got, ",") != "a,b" {
		t.Fatalf("unexpected ipairs sequence: %v", got)
	}
}

func TestDBOpenRejectsUnknownDriver(t *testing.T) {
	env := newEnv()
	open := env.Get("db.open").AsFunction()
	_, err := open.Call(value.NewVallist(value.String("notadriver"), value.String("dsn")))
	if err == nil {
		t.Fatalf("expected an error for an unknown driver")
	}
}
