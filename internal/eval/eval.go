// Package eval implements the tree-walking evaluator of spec.md §4.G: it
// walks an internal/ast tree against an internal/environment, dispatching
// every expression/statement kind through internal/operator and
// internal/value, and surfaces the call-frame state machine
// (Running -> Returning|Breaking|Erroring) spec.md names explicitly.
package eval

import (
	"fmt"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/ast"
	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/errorsx"
	"github.com/sp-uulm/MiniLua-sub001/internal/operator"
	"github.com/sp-uulm/MiniLua-sub001/internal/source"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// DefaultVisitLimit is the per-evaluation loop-iteration budget spec.md
// §4.G names (500), the core's sole defence against unbounded programs.
const DefaultVisitLimit = 500

// Interpreter owns one evaluation's environment, table arena, and visit
// counter. Distinct Interpreters must never share an arena (spec.md §5).
type Interpreter struct {
	Env        *environment.Environment
	Arena      *allocator.Arena
	VisitLimit int

	visits  int
	varargs value.Vallist
}

// New creates an Interpreter with a fresh global Environment rooted at the
// given arena and spec.md's default visit limit.
func New(arena *allocator.Arena) *Interpreter {
	return &Interpreter{Env: environment.New(), Arena: arena, VisitLimit: DefaultVisitLimit}
}

// ctrlKind distinguishes the outcomes of executing a statement/block beyond
// plain fall-through, per spec.md §4.G's call-frame state machine.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlGoto
)

type ctrl struct {
	kind  ctrlKind
	vals  value.Vallist
	label string
}

var none = ctrl{kind: ctrlNone}

// Run evaluates a full chunk (top-level statement list) and returns its
// result: the Vallist of the top-level `return`, or an empty Vallist if
// control fell off the end without one.
func (in *Interpreter) Run(block []ast.Stmt) (value.Vallist, error) {
	c, err := in.execBlock(block)
	if err != nil {
		return nil, err
	}
	switch c.kind {
	case ctrlReturn:
		return c.vals, nil
	case ctrlBreak:
		return nil, in.wrap(errorsx.New(errorsx.RuntimeAssertion, "break outside a loop", nil), source.Zero)
	case ctrlGoto:
		return nil, in.wrap(errorsx.New(errorsx.Parse, fmt.Sprintf("no visible label %q", c.label), nil), source.Zero)
	default:
		return nil, nil
	}
}

func (in *Interpreter) wrap(err *errorsx.InterpreterError, rng source.Range) error {
	return err.WithFrame("<chunk>", rng)
}

// execBlock runs stmts in order, honoring spec.md's goto/label resolution:
// a goto whose label appears anywhere in the same statement list (forward
// or backward) resumes execution from just after that label.
func (in *Interpreter) execBlock(stmts []ast.Stmt) (ctrl, error) {
	i := 0
	for i < len(stmts) {
		c, err := in.execStmt(stmts[i])
		if err != nil {
			return none, err
		}
		if c.kind == ctrlGoto {
			if idx, ok := findLabel(stmts, c.label); ok {
				i = idx + 1
				continue
			}
			return c, nil
		}
		if c.kind != ctrlNone {
			return c, nil
		}
		i++
	}
	return none, nil
}

func findLabel(stmts []ast.Stmt, name string) (int, bool) {
	for i, s := range stmts {
		if l, ok := s.(*ast.Label); ok && l.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (in *Interpreter) execStmt(s ast.Stmt) (ctrl, error) {
	switch n := s.(type) {
	case *ast.Label:
		return none, nil
	case *ast.Goto:
		return ctrl{kind: ctrlGoto, label: n.Label}, nil
	case *ast.Break:
		return ctrl{kind: ctrlBreak}, nil
	case *ast.Return:
		vals, err := in.evalExprListMulti(n.Values)
		if err != nil {
			return none, err
		}
		return ctrl{kind: ctrlReturn, vals: vals}, nil
	case *ast.LocalDecl:
		return none, in.execLocalDecl(n)
	case *ast.Assign:
		return none, in.execAssign(n)
	case *ast.If:
		return in.execIf(n)
	case *ast.While:
		return in.execWhile(n)
	case *ast.Repeat:
		return in.execRepeat(n)
	case *ast.NumericFor:
		return in.execNumericFor(n)
	case *ast.GenericFor:
		return in.execGenericFor(n)
	case *ast.DoBlock:
		in.Env.PushFrame()
		defer in.Env.PopFrame()
		return in.execBlock(n.Body)
	case *ast.FunctionDecl:
		return none, in.execFunctionDecl(n)
	case *ast.CallStmt:
		_, err := in.evalExprMulti(n.Call)
		return none, err
	default:
		return none, in.errf(errorsx.RuntimeAssertion, s.Range(), "unsupported statement %T", s)
	}
}

func (in *Interpreter) execLocalDecl(n *ast.LocalDecl) error {
	vals, err := in.evalExprListMulti(n.Values)
	if err != nil {
		return err
	}
	padded := vals.PadTo(len(n.Names))
	for i, name := range n.Names {
		in.Env.DeclareLocal(name, padded[i])
	}
	return nil
}

// execAssign evaluates the whole rhs Vallist before performing any store
// (spec.md §5: "so a, b = b, a swaps correctly").
func (in *Interpreter) execAssign(n *ast.Assign) error {
	vals, err := in.evalExprListMulti(n.Values)
	if err != nil {
		return err
	}
	padded := vals.PadTo(len(n.Targets))
	for i, target := range n.Targets {
		if err := in.assignTo(target, padded[i]); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) assignTo(target ast.LValue, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		in.Env.Assign(t.Name, v)
		return nil
	case *ast.Field:
		obj, err := in.evalExpr(t.Object)
		if err != nil {
			return err
		}
		return in.setIndex(obj, value.String(t.Name), v, t.Rng)
	case *ast.Index:
		obj, err := in.evalExpr(t.Object)
		if err != nil {
			return err
		}
		key, err := in.evalExpr(t.Key)
		if err != nil {
			return err
		}
		return in.setIndex(obj, key, v, t.Rng)
	default:
		return in.errf(errorsx.RuntimeAssertion, target.Range(), "invalid assignment target %T", target)
	}
}

func (in *Interpreter) setIndex(obj, key, v value.Value, rng source.Range) error {
	if !obj.IsTable() {
		return in.errf(errorsx.Type, rng, "attempt to index a %s value", obj.TypeName())
	}
	return obj.AsTable().Set(key, v, in.setIndexFunc())
}

func (in *Interpreter) execIf(n *ast.If) (ctrl, error) {
	for _, clause := range n.Clauses {
		cond, err := in.evalExpr(clause.Cond)
		if err != nil {
			return none, err
		}
		if cond.Truthy() {
			in.Env.PushFrame()
			defer in.Env.PopFrame()
			return in.execBlock(clause.Body)
		}
	}
	if n.Else != nil {
		in.Env.PushFrame()
		defer in.Env.PopFrame()
		return in.execBlock(n.Else)
	}
	return none, nil
}

func (in *Interpreter) execWhile(n *ast.While) (ctrl, error) {
	for {
		cond, err := in.evalExpr(n.Cond)
		if err != nil {
			return none, err
		}
		if !cond.Truthy() {
			return none, nil
		}
		if err := in.tickVisit(n.Rng); err != nil {
			return none, err
		}
		in.Env.PushFrame()
		c, err := in.execBlock(n.Body)
		in.Env.PopFrame()
		if err != nil {
			return none, err
		}
		if c.kind == ctrlBreak {
			return none, nil
		}
		if c.kind == ctrlReturn || c.kind == ctrlGoto {
			return c, nil
		}
	}
}

func (in *Interpreter) execRepeat(n *ast.Repeat) (ctrl, error) {
	for {
		if err := in.tickVisit(n.Rng); err != nil {
			return none, err
		}
		in.Env.PushFrame()
		c, err := in.execBlock(n.Body)
		if err != nil {
			in.Env.PopFrame()
			return none, err
		}
		if c.kind == ctrlBreak {
			in.Env.PopFrame()
			return none, nil
		}
		if c.kind == ctrlReturn || c.kind == ctrlGoto {
			in.Env.PopFrame()
			return c, nil
		}
		// until's condition can see the body's locals, per spec.md §6.
		cond, err := in.evalExpr(n.Cond)
		in.Env.PopFrame()
		if err != nil {
			return none, err
		}
		if cond.Truthy() {
			return none, nil
		}
	}
}

func (in *Interpreter) execNumericFor(n *ast.NumericFor) (ctrl, error) {
	start, err := in.evalNumber(n.Start, "'for' initial value")
	if err != nil {
		return none, err
	}
	stop, err := in.evalNumber(n.Stop, "'for' limit")
	if err != nil {
		return none, err
	}
	step := value.Int(1)
	if n.Step != nil {
		step, err = in.evalNumber(n.Step, "'for' step")
		if err != nil {
			return none, err
		}
	}
	if step.AsNumber().Float() == 0 {
		return none, in.errf(errorsx.Arithmetic, n.Rng, "'for' step is zero")
	}
	ascending := step.AsNumber().Float() > 0
	i := start
	for {
		iv := i.AsNumber().Float()
		sv := stop.AsNumber().Float()
		if ascending && iv > sv {
			return none, nil
		}
		if !ascending && iv < sv {
			return none, nil
		}
		if err := in.tickVisit(n.Rng); err != nil {
			return none, err
		}
		in.Env.PushFrame()
		in.Env.DeclareLocal(n.Name, i.RemoveOrigin())
		c, err := in.execBlock(n.Body)
		in.Env.PopFrame()
		if err != nil {
			return none, err
		}
		if c.kind == ctrlBreak {
			return none, nil
		}
		if c.kind == ctrlReturn || c.kind == ctrlGoto {
			return c, nil
		}
		nextVal, rerr := operator.Binary("+", i, step, n.Rng)
		if rerr != nil {
			return none, in.errf(errorsx.Arithmetic, n.Rng, "%s", rerr)
		}
		i = nextVal
	}
}

func (in *Interpreter) evalNumber(e ast.Expr, what string) (value.Value, error) {
	v, err := in.evalExpr(e)
	if err != nil {
		return value.Nil, err
	}
	if !v.IsNumber() {
		return value.Nil, in.errf(errorsx.Type, e.Range(), "%s must be a number", what)
	}
	return v, nil
}

// execGenericFor calls the iterator Function until it yields Nil as its
// first result, per spec.md §4.G.
func (in *Interpreter) execGenericFor(n *ast.GenericFor) (ctrl, error) {
	vals, err := in.evalExprListMulti(n.Exprs)
	if err != nil {
		return none, err
	}
	padded := vals.PadTo(3)
	iterVal, state, ctrlVar := padded[0], padded[1], padded[2]
	if !iterVal.IsFunction() {
		return none, in.errf(errorsx.Type, n.Rng, "'for in' iterator must be a function, got %s", iterVal.TypeName())
	}
	iter := iterVal.AsFunction()
	for {
		if err := in.tickVisit(n.Rng); err != nil {
			return none, err
		}
		results, err := iter.Call(value.NewVallist(state, ctrlVar))
		if err != nil {
			return none, in.propagate(err, n.Rng)
		}
		padded := results.PadTo(len(n.Names))
		if padded[0].IsNil() {
			return none, nil
		}
		ctrlVar = padded[0]
		in.Env.PushFrame()
		for i, name := range n.Names {
			in.Env.DeclareLocal(name, padded[i])
		}
		c, err := in.execBlock(n.Body)
		in.Env.PopFrame()
		if err != nil {
			return none, err
		}
		if c.kind == ctrlBreak {
			return none, nil
		}
		if c.kind == ctrlReturn || c.kind == ctrlGoto {
			return c, nil
		}
	}
}

// execFunctionDecl implements both `function name(...)`/`function
// t.a.b(...)` and `local function name(...)`. For the latter, name is
// declared local (bound to Nil) before the closure is built so the
// closure's captured frame already has the binding in scope, then
// rebound to the finished closure in that same frame — letting the body
// call name recursively (spec.md §4.G).
func (in *Interpreter) execFunctionDecl(n *ast.FunctionDecl) error {
	if n.IsLocal {
		in.Env.DeclareLocal(n.Name, value.Nil)
		fn := in.makeClosure(n.Fn, n.Name)
		in.Env.DeclareLocal(n.Name, value.FunctionValue(fn))
		return nil
	}
	fn := in.makeClosure(n.Fn, n.Name)
	v := value.FunctionValue(fn)
	if n.Target == nil {
		in.Env.Assign(n.Name, v)
		return nil
	}
	return in.assignTo(n.Target, v)
}

// Visits reports how many loop-body entries this Interpreter has counted
// so far, for --trace-mode progress reporting (SPEC_FULL.md §4.I).
func (in *Interpreter) Visits() int { return in.visits }

// tickVisit increments the per-evaluation visit counter and fails with
// VisitLimit once it exceeds in.VisitLimit (spec.md §4.G).
func (in *Interpreter) tickVisit(rng source.Range) error {
	in.visits++
	if in.visits > in.VisitLimit {
		return in.errf(errorsx.VisitLimit, rng, "visit limit (%d) exceeded", in.VisitLimit)
	}
	return nil
}

func (in *Interpreter) errf(kind errorsx.Kind, rng source.Range, format string, args ...interface{}) error {
	return errorsx.New(kind, fmt.Sprintf(format, args...), nil).WithFrame("<eval>", rng)
}

// propagate wraps an error returned from a Function.Call (which may already
// be an *errorsx.InterpreterError from a nested evaluation) with the
// current call site, building the stack spec.md §7 requires.
func (in *Interpreter) propagate(err error, rng source.Range) error {
	if ie, ok := err.(*errorsx.InterpreterError); ok {
		return ie.WithFrame("<call>", rng)
	}
	return errorsx.New(errorsx.RuntimeAssertion, err.Error(), err).WithFrame("<call>", rng)
}
