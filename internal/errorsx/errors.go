// Package errorsx implements the single InterpreterError surface described
// in spec.md §7, generalized from the teacher's internal/errors package
// (SentraError/ErrorType/StackFrame) to the Kind enum and call-site stack
// spec.md specifies.
package errorsx

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/kr/text"

	"github.com/sp-uulm/MiniLua-sub001/internal/source"
)

// Kind tags the category of an InterpreterError, per spec.md §7.
type Kind string

const (
	Parse            Kind = "Parse"
	Type             Kind = "Type"
	BadArgument      Kind = "BadArgument"
	Arithmetic       Kind = "Arithmetic"
	UndefinedName    Kind = "UndefinedName"
	RuntimeAssertion Kind = "RuntimeAssertion"
	VisitLimit       Kind = "VisitLimit"
	NotRepresentable Kind = "NotRepresentable"
)

// Frame is one entry of the call stack built up as the error unwinds.
type Frame struct {
	Function string
	Range    source.Range
}

// InterpreterError is the single error surface value spec.md §7 specifies:
// a kind, a human message, and a stack of call sites built as frames
// unwind. cause preserves the originating Go error (wrapped with
// github.com/pkg/errors so --trace mode can print its Go-level stack too).
type InterpreterError struct {
	Kind    Kind
	Message string
	Stack   []Frame
	cause   error
}

// New constructs an InterpreterError, wrapping cause (if non-nil) with a
// captured Go stack trace via github.com/pkg/errors.
func New(kind Kind, message string, cause error) *InterpreterError {
	var wrapped error
	if cause != nil {
		wrapped = pkgerrors.WithStack(cause)
	}
	return &InterpreterError{Kind: kind, Message: message, cause: wrapped}
}

// BadArgumentError formats spec.md §7's required shape:
// "bad argument #N to 'name' (msg)".
func BadArgumentError(index int, fn, msg string) *InterpreterError {
	return New(BadArgument, fmt.Sprintf("bad argument #%d to '%s' (%s)", index, fn, msg), nil)
}

// WithFrame appends a call-site frame as the error unwinds through a call.
func (e *InterpreterError) WithFrame(function string, rng source.Range) *InterpreterError {
	e.Stack = append(e.Stack, Frame{Function: function, Range: rng})
	return e
}

func (e *InterpreterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if len(e.Stack) > 0 {
		var frames strings.Builder
		for _, f := range e.Stack {
			name := f.Function
			if name == "" {
				name = "?"
			}
			fmt.Fprintf(&frames, "at %s (%s)\n", name, f.Range)
		}
		b.WriteString("\n")
		b.WriteString(text.Indent(strings.TrimRight(frames.String(), "\n"), "  "))
	}
	return b.String()
}

// Unwrap exposes the wrapped Go cause (with its pkg/errors stack trace) for
// errors.Is/As and for --trace-mode diagnostics.
func (e *InterpreterError) Unwrap() error { return e.cause }

// Cause returns the underlying Go error exactly as wrapped, or nil.
func (e *InterpreterError) Cause() error { return e.cause }
