package eval

import (
	"github.com/sp-uulm/MiniLua-sub001/internal/ast"
	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// closure implements value.Function over an ast.FunctionDef and a captured
// environment frame (spec.md §4.G "Function definition": "produces a
// closure Value capturing the current environment frames by shared
// reference"). It is a concrete type living in internal/eval, never in
// internal/value, per that package's import-cycle note.
type closure struct {
	in    *Interpreter
	def   *ast.FunctionDef
	frame *environment.Frame
	name  string
}

func (in *Interpreter) makeClosure(def *ast.FunctionDef, name string) *closure {
	return &closure{in: in, def: def, frame: in.Env.CaptureFrame(), name: name}
}

func (c *closure) Name() string { return c.name }

// Call pushes a new frame rooted at the captured lexical scope, binds
// parameters (extra args discarded, missing padded with Nil per spec.md
// §4.G), and runs the body. It returns the body's `return` values or its
// error; a `break` or `goto` that escapes the body ends the call with no
// results.
func (c *closure) Call(args value.Vallist) (value.Vallist, error) {
	in := c.in
	savedEnv := in.Env
	savedVarargs := in.varargs
	in.Env = savedEnv.WithFrame(c.frame)
	in.Env.PushFrame()
	defer func() {
		in.Env = savedEnv
		in.varargs = savedVarargs
	}()

	padded := args.PadTo(len(c.def.Params))
	for i, p := range c.def.Params {
		in.Env.DeclareLocal(p, padded[i])
	}
	if c.def.Vararg {
		if len(args) > len(c.def.Params) {
			in.varargs = args[len(c.def.Params):]
		} else {
			in.varargs = nil
		}
	} else {
		in.varargs = nil
	}

	ctl, err := in.execBlock(c.def.Body)
	if err != nil {
		return nil, err
	}
	if ctl.kind == ctrlReturn {
		return ctl.vals, nil
	}
	return nil, nil
}

func (in *Interpreter) currentVarargs() value.Vallist {
	return in.varargs
}

// indexFunc/setIndexFunc supply the evaluator-side callbacks
// internal/value's Table needs to resolve __index/__newindex function
// metamethods (spec.md §4.G "Index / FieldAccess").
func (in *Interpreter) indexFunc() value.IndexFunc {
	return func(t *value.Table, key value.Value) (value.Value, error) {
		meta := t.Metatable()
		if meta == nil {
			return value.Nil, nil
		}
		handler := meta.RawGet(value.String("__index"))
		return in.invokeOne(handler, value.NewVallist(value.TableValue(t), key))
	}
}

func (in *Interpreter) setIndexFunc() value.SetIndexFunc {
	return func(t *value.Table, key, val value.Value) error {
		meta := t.Metatable()
		if meta == nil {
			return nil
		}
		handler := meta.RawGet(value.String("__newindex"))
		_, err := in.invokeOne(handler, value.NewVallist(value.TableValue(t), key, val))
		return err
	}
}

func (in *Interpreter) invokeOne(fn value.Value, args value.Vallist) (value.Value, error) {
	if !fn.IsFunction() {
		return value.Nil, nil
	}
	results, err := fn.AsFunction().Call(args)
	if err != nil {
		return value.Nil, err
	}
	return results.First(), nil
}
