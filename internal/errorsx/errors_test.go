package errorsx

import (
	"errors"
	"strings"
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/source"
)

func TestBadArgumentMessageShape(t *testing.T) {
	err := BadArgumentError(1, "sin", "number expected, got string")
	if !strings.Contains(err.Message, "bad argument #1 to 'sin'") {
		t.Fatalf("unexpected message: %q", err.Message)
	}
}

func TestWithFrameAccumulatesStack(t *testing.T) {
	err := New(RuntimeAssertion, "boom", nil)
	err.WithFrame("f", source.Range{}).WithFrame("g", source.Range{})
	if len(err.Stack) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(err.Stack))
	}
	if !strings.Contains(err.Error(), "at f") || !strings.Contains(err.Error(), "at g") {
		t.Fatalf("expected rendered error to mention both frames, got %q", err.Error())
	}
}

func TestUnwrapExposesWrappedCause(t *testing.T) {
	cause := errors.New("root cause")
	err := New(Type, "wrapped", cause)
	if errors.Unwrap(err).Error() == "" {
		t.Fatalf("expected a non-empty unwrapped cause")
	}
}
