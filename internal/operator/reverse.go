package operator

import (
	"math"
	"strings"

	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// The reverse table from spec.md §4.D, one small type per operator. Each
// Solve*/Solve method either returns a representable, finite, in-domain
// value, or (false) to signal that branch is unsolvable — the caller
// (value.BinaryOp.force / value.UnaryOp.force) drops unsolvable branches
// and propagates "no proposal" if every branch vanishes.

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

// a + b: a = t-b, b = t-a
type addReverse struct{}

func (addReverse) SolveLHS(rhs, target value.Value) (value.Value, bool) {
	if !rhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	f := target.AsNumber().Float() - rhs.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return promote(f, rhs.AsNumber(), target.AsNumber()), true
}
func (addReverse) SolveRHS(lhs, target value.Value) (value.Value, bool) {
	if !lhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	f := target.AsNumber().Float() - lhs.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return promote(f, lhs.AsNumber(), target.AsNumber()), true
}

// a - b: a = t+b, b = a-t
type subReverse struct{}

func (subReverse) SolveLHS(rhs, target value.Value) (value.Value, bool) {
	if !rhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	f := target.AsNumber().Float() + rhs.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return promote(f, rhs.AsNumber(), target.AsNumber()), true
}
func (subReverse) SolveRHS(lhs, target value.Value) (value.Value, bool) {
	if !lhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	f := lhs.AsNumber().Float() - target.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return promote(f, lhs.AsNumber(), target.AsNumber()), true
}

// a * b (b != 0): a = t/b; b != 0... and b = t/a (a != 0)
type mulReverse struct{}

func (mulReverse) SolveLHS(rhs, target value.Value) (value.Value, bool) {
	if !rhs.IsNumber() || !target.IsNumber() || rhs.AsNumber().Float() == 0 {
		return value.Nil, false
	}
	f := target.AsNumber().Float() / rhs.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return promote(f, rhs.AsNumber(), target.AsNumber()), true
}
func (mulReverse) SolveRHS(lhs, target value.Value) (value.Value, bool) {
	if !lhs.IsNumber() || !target.IsNumber() || lhs.AsNumber().Float() == 0 {
		return value.Nil, false
	}
	f := target.AsNumber().Float() / lhs.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return promote(f, lhs.AsNumber(), target.AsNumber()), true
}

// a / b: a = t*b, b = a/t (t != 0)
type divReverse struct{}

func (divReverse) SolveLHS(rhs, target value.Value) (value.Value, bool) {
	if !rhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	f := target.AsNumber().Float() * rhs.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return value.Float(f), true
}
func (divReverse) SolveRHS(lhs, target value.Value) (value.Value, bool) {
	if !lhs.IsNumber() || !target.IsNumber() || target.AsNumber().Float() == 0 {
		return value.Nil, false
	}
	f := lhs.AsNumber().Float() / target.AsNumber().Float()
	if !finite(f) {
		return value.Nil, false
	}
	return value.Float(f), true
}

// a ^ b: a = t^(1/b) if defined, b = log_a(t) if defined
type powReverse struct{}

func (powReverse) SolveLHS(rhs, target value.Value) (value.Value, bool) {
	if !rhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	t, b := target.AsNumber().Float(), rhs.AsNumber().Float()
	if t < 0 || b == 0 {
		return value.Nil, false
	}
	f := math.Pow(t, 1/b)
	if !finite(f) {
		return value.Nil, false
	}
	return value.Float(f), true
}
func (powReverse) SolveRHS(lhs, target value.Value) (value.Value, bool) {
	if !lhs.IsNumber() || !target.IsNumber() {
		return value.Nil, false
	}
	a, t := lhs.AsNumber().Float(), target.AsNumber().Float()
	if a <= 0 || a == 1 || t <= 0 {
		return value.Nil, false
	}
	f := math.Log(t) / math.Log(a)
	if !finite(f) {
		return value.Nil, false
	}
	return value.Float(f), true
}

// a .. b (strings): split target into a fixed prefix/suffix, symmetric.
type concatReverse struct{}

func (concatReverse) SolveLHS(rhs, target value.Value) (value.Value, bool) {
	if !rhs.IsString() || !target.IsString() {
		return value.Nil, false
	}
	suffix := rhs.AsString()
	full := target.AsString()
	if !strings.HasSuffix(full, suffix) {
		return value.Nil, false
	}
	return value.String(full[:len(full)-len(suffix)]), true
}
func (concatReverse) SolveRHS(lhs, target value.Value) (value.Value, bool) {
	if !lhs.IsString() || !target.IsString() {
		return value.Nil, false
	}
	prefix := lhs.AsString()
	full := target.AsString()
	if !strings.HasPrefix(full, prefix) {
		return value.Nil, false
	}
	return value.String(full[len(prefix):]), true
}

// unary -: v = -t
type unaryMinusReverse struct{}

func (unaryMinusReverse) Solve(target value.Value) (value.Value, bool) {
	if !target.IsNumber() {
		return value.Nil, false
	}
	n := target.AsNumber()
	if n.IsInt {
		return value.Int(-n.I), true
	}
	return value.Float(-n.F), true
}

// unary not (on a boolean): v = !t
type notReverse struct{}

func (notReverse) Solve(target value.Value) (value.Value, bool) {
	if !target.IsBool() {
		return value.Nil, false
	}
	return value.Bool(!target.AsBool()), true
}

// promote keeps the reversed operand's sub-kind (int vs float) aligned
// with whichever side of the original computation looked integral, so
// forcing `25 + 13` with an integer target proposes integer literals
// instead of "14.0"/"2.0".
func promote(f float64, sibling, target value.Number) value.Value {
	if sibling.IsInt && target.IsInt && f == math.Trunc(f) {
		return value.Int(int64(f))
	}
	return value.Float(f)
}
