package eval

import (
	"github.com/sp-uulm/MiniLua-sub001/internal/ast"
	"github.com/sp-uulm/MiniLua-sub001/internal/errorsx"
	"github.com/sp-uulm/MiniLua-sub001/internal/operator"
	"github.com/sp-uulm/MiniLua-sub001/internal/source"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// evalExpr evaluates e to a single Value; multi-value expressions
// (Call/MethodCall/Vararg) collapse to their first result, per spec.md's
// "used in a single-value context" rule.
func (in *Interpreter) evalExpr(e ast.Expr) (value.Value, error) {
	vl, err := in.evalExprMulti(e)
	if err != nil {
		return value.Nil, err
	}
	return vl.First(), nil
}

// evalExprMulti evaluates e, preserving multiple results for the
// expressions that can produce them.
func (in *Interpreter) evalExprMulti(e ast.Expr) (value.Vallist, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return value.NewVallist(in.literalValue(n)), nil
	case *ast.Identifier:
		return value.NewVallist(in.Env.Get(n.Name)), nil
	case *ast.Vararg:
		return in.currentVarargs(), nil
	case *ast.BinaryOp:
		v, err := in.evalBinary(n)
		if err != nil {
			return nil, err
		}
		return value.NewVallist(v), nil
	case *ast.UnaryOp:
		v, err := in.evalUnary(n)
		if err != nil {
			return nil, err
		}
		return value.NewVallist(v), nil
	case *ast.FunctionDef:
		return value.NewVallist(value.FunctionValue(in.makeClosure(n, "?"))), nil
	case *ast.TableConstructor:
		v, err := in.evalTableConstructor(n)
		if err != nil {
			return nil, err
		}
		return value.NewVallist(v), nil
	case *ast.Index:
		v, err := in.evalIndex(n)
		if err != nil {
			return nil, err
		}
		return value.NewVallist(v), nil
	case *ast.Field:
		// Library built-ins are bound under dotted global names ("math.sin"),
		// so `lib.name` on an unbound `lib` resolves to that binding.
		if id, ok := n.Object.(*ast.Identifier); ok && in.Env.Get(id.Name).IsNil() {
			if v := in.Env.Get(id.Name + "." + n.Name); !v.IsNil() {
				return value.NewVallist(v), nil
			}
		}
		obj, err := in.evalExpr(n.Object)
		if err != nil {
			return nil, err
		}
		v, err := in.getIndex(obj, value.String(n.Name), n.Rng)
		if err != nil {
			return nil, err
		}
		return value.NewVallist(v), nil
	case *ast.Call:
		return in.evalCall(n)
	case *ast.MethodCall:
		return in.evalMethodCall(n)
	default:
		return nil, in.errf(errorsx.RuntimeAssertion, e.Range(), "unsupported expression %T", e)
	}
}

func (in *Interpreter) literalValue(n *ast.Literal) value.Value {
	var v value.Value
	switch n.Kind {
	case ast.LitNil:
		v = value.Nil
	case ast.LitBool:
		v = value.Bool(n.Bool)
	case ast.LitNumber:
		if n.IsInt {
			v = value.Int(n.Int)
		} else {
			v = value.Float(n.Float)
		}
	case ast.LitString:
		v = value.String(n.Str)
	}
	return v.WithOrigin(value.Literal{Range: n.Rng})
}

// evalBinary implements spec.md §4.G's and/or short-circuit (returning the
// operand Value itself, with its Origin intact, never a synthesized
// BinaryOp) alongside the general operator dispatch for everything else.
func (in *Interpreter) evalBinary(n *ast.BinaryOp) (value.Value, error) {
	if n.Op == "and" || n.Op == "or" {
		lhs, err := in.evalExpr(n.Lhs)
		if err != nil {
			return value.Nil, err
		}
		if n.Op == "and" && !lhs.Truthy() {
			return lhs, nil
		}
		if n.Op == "or" && lhs.Truthy() {
			return lhs, nil
		}
		return in.evalExpr(n.Rhs)
	}
	lhs, err := in.evalExpr(n.Lhs)
	if err != nil {
		return value.Nil, err
	}
	rhs, err := in.evalExpr(n.Rhs)
	if err != nil {
		return value.Nil, err
	}
	v, err := operator.Binary(n.Op, lhs, rhs, n.Rng)
	if err != nil {
		return value.Nil, in.errf(errorsx.Arithmetic, n.Rng, "%s", err)
	}
	return v, nil
}

func (in *Interpreter) evalUnary(n *ast.UnaryOp) (value.Value, error) {
	operand, err := in.evalExpr(n.Operand)
	if err != nil {
		return value.Nil, err
	}
	v, err := operator.Unary(n.Op, operand, n.Rng)
	if err != nil {
		return value.Nil, in.errf(errorsx.Arithmetic, n.Rng, "%s", err)
	}
	return v, nil
}

func (in *Interpreter) evalIndex(n *ast.Index) (value.Value, error) {
	obj, err := in.evalExpr(n.Object)
	if err != nil {
		return value.Nil, err
	}
	key, err := in.evalExpr(n.Key)
	if err != nil {
		return value.Nil, err
	}
	return in.getIndex(obj, key, n.Rng)
}

func (in *Interpreter) getIndex(obj, key value.Value, rng source.Range) (value.Value, error) {
	if !obj.IsTable() {
		return value.Nil, in.errf(errorsx.Type, rng, "attempt to index a %s value", obj.TypeName())
	}
	v, err := obj.AsTable().Get(key, in.indexFunc())
	if err != nil {
		return value.Nil, in.propagate(err, rng)
	}
	return v, nil
}

func (in *Interpreter) evalTableConstructor(n *ast.TableConstructor) (value.Value, error) {
	t := value.NewTable(in.Arena)
	var nextIdx int64 = 1
	for i, f := range n.Fields {
		if f.Key != nil {
			key, err := in.evalExpr(f.Key)
			if err != nil {
				return value.Nil, err
			}
			val, err := in.evalExpr(f.Value)
			if err != nil {
				return value.Nil, err
			}
			t.RawSet(key, val)
			continue
		}
		// Final positional field splices a Vallist (spec.md §4.G).
		if i == len(n.Fields)-1 {
			vals, err := in.evalExprMulti(f.Value)
			if err != nil {
				return value.Nil, err
			}
			for _, v := range vals {
				t.RawSet(value.Int(nextIdx), v)
				nextIdx++
			}
			continue
		}
		val, err := in.evalExpr(f.Value)
		if err != nil {
			return value.Nil, err
		}
		t.RawSet(value.Int(nextIdx), val)
		nextIdx++
	}
	return value.TableValue(t), nil
}

// evalExprListMulti evaluates a comma-separated expression list, spreading
// only the final expression's Vallist (spec.md §4.G "Assignment").
func (in *Interpreter) evalExprListMulti(exprs []ast.Expr) (value.Vallist, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	var out value.Vallist
	for i, e := range exprs {
		if i == len(exprs)-1 {
			vl, err := in.evalExprMulti(e)
			if err != nil {
				return nil, err
			}
			out = out.Concat(vl)
			continue
		}
		v, err := in.evalExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (in *Interpreter) evalCall(n *ast.Call) (value.Vallist, error) {
	callee, err := in.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	args, err := in.evalExprListMulti(n.Args)
	if err != nil {
		return nil, err
	}
	return in.invoke(callee, args, n.Rng)
}

// evalMethodCall desugars `obj:m(args)` into `obj.m(obj, args)` with obj
// evaluated exactly once, per spec.md §4.G.
func (in *Interpreter) evalMethodCall(n *ast.MethodCall) (value.Vallist, error) {
	obj, err := in.evalExpr(n.Object)
	if err != nil {
		return nil, err
	}
	method, err := in.getIndex(obj, value.String(n.Method), n.Rng)
	if err != nil {
		return nil, err
	}
	args, err := in.evalExprListMulti(n.Args)
	if err != nil {
		return nil, err
	}
	full := append(value.Vallist{obj}, args...)
	return in.invoke(method, full, n.Rng)
}

func (in *Interpreter) invoke(callee value.Value, args value.Vallist, rng source.Range) (value.Vallist, error) {
	if !callee.IsFunction() {
		return nil, in.errf(errorsx.Type, rng, "attempt to call a %s value", callee.TypeName())
	}
	results, err := callee.AsFunction().Call(args)
	if err != nil {
		return nil, in.propagate(err, rng)
	}
	return results, nil
}
