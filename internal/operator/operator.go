// Package operator implements the forward and reverse semantics of every
// MiniLua operator (spec.md §4.F/§4.D): arithmetic with Lua 5.3 int/float
// promotion, comparison, concatenation, bitwise ops, length, and unary
// minus/not. Every forward application tags its result with the matching
// Origin so internal/eval never has to construct Origins itself.
package operator

import (
	"fmt"
	"math"

	"github.com/sp-uulm/MiniLua-sub001/internal/source"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// Error is returned by forward operator application for type mismatches,
// undefined arithmetic, and unsupported operand combinations. internal/eval
// wraps it into an errorsx.InterpreterError with the call-site stack.
type Error struct {
	Op  string
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("attempt to perform arithmetic on %s (%s)", e.Op, e.Msg)
}

func typeErr(op, msg string) error { return &Error{Op: op, Msg: msg} }

// Binary applies a binary operator and tags the result with a BinaryOp
// Origin carrying the operator's reverse (nil when the operator, like `%`
// or comparisons, has none per spec.md's reverse table).
func Binary(op string, lhs, rhs value.Value, rng source.Range) (value.Value, error) {
	result, rev, err := applyBinary(op, lhs, rhs)
	if err != nil {
		return value.Nil, err
	}
	return result.WithOrigin(value.BinaryOp{
		Op: op, Lhs: lhs, Rhs: rhs, Range: rng, Reverse: rev,
	}), nil
}

// Unary applies a unary operator and tags the result with a UnaryOp Origin.
func Unary(op string, operand value.Value, rng source.Range) (value.Value, error) {
	result, rev, err := applyUnary(op, operand)
	if err != nil {
		return value.Nil, err
	}
	return result.WithOrigin(value.UnaryOp{
		Op: op, Operand: operand, Range: rng, Reverse: rev,
	}), nil
}

func applyBinary(op string, lhs, rhs value.Value) (value.Value, value.ReverseBinary, error) {
	switch op {
	case "+":
		return arith(op, lhs, rhs, func(a, b int64) (int64, bool) {
			r := a + b
			// overflow iff both operands share a sign the result does not have
			return r, !((a >= 0) == (b >= 0) && (r >= 0) != (a >= 0))
		}, func(a, b float64) float64 { return a + b }, addReverse{})
	case "-":
		return arith(op, lhs, rhs, func(a, b int64) (int64, bool) {
			r := a - b
			return r, !((a >= 0) != (b >= 0) && (r >= 0) != (a >= 0))
		}, func(a, b float64) float64 { return a - b }, subReverse{})
	case "*":
		return arith(op, lhs, rhs, func(a, b int64) (int64, bool) {
			if a == 0 || b == 0 {
				return 0, true
			}
			if b == -1 && a == math.MinInt64 {
				return 0, false
			}
			r := a * b
			return r, (r/b == a)
		}, func(a, b float64) float64 { return a * b }, mulReverse{})
	case "/":
		a, b, err := numOperands(op, lhs, rhs)
		if err != nil {
			return value.Nil, nil, err
		}
		return value.Float(a.Float() / b.Float()), divReverse{}, nil
	case "//":
		a, b, err := numOperands(op, lhs, rhs)
		if err != nil {
			return value.Nil, nil, err
		}
		if a.IsInt && b.IsInt {
			if b.I == 0 {
				return value.Nil, nil, typeErr(op, "integer division by zero")
			}
			q := a.I / b.I
			if (a.I%b.I != 0) && ((a.I < 0) != (b.I < 0)) {
				q--
			}
			return value.Int(q), nil, nil
		}
		return value.Float(math.Floor(a.Float() / b.Float())), nil, nil
	case "%":
		a, b, err := numOperands(op, lhs, rhs)
		if err != nil {
			return value.Nil, nil, err
		}
		if a.IsInt && b.IsInt {
			if b.I == 0 {
				return value.Nil, nil, typeErr(op, "integer modulo by zero")
			}
			m := a.I % b.I
			if m != 0 && ((m < 0) != (b.I < 0)) {
				m += b.I
			}
			return value.Int(m), nil, nil // `%` is never reversed (spec.md §4.D)
		}
		fm := math.Mod(a.Float(), b.Float())
		if fm != 0 && ((fm < 0) != (b.Float() < 0)) {
			fm += b.Float()
		}
		return value.Float(fm), nil, nil
	case "^":
		a, b, err := numOperands(op, lhs, rhs)
		if err != nil {
			return value.Nil, nil, err
		}
		return value.Float(math.Pow(a.Float(), b.Float())), powReverse{}, nil
	case "..":
		return concat(lhs, rhs)
	case "==":
		return value.Bool(value.Equal(lhs, rhs)), nil, nil
	case "~=":
		return value.Bool(!value.Equal(lhs, rhs)), nil, nil
	case "<", "<=", ">", ">=":
		return compare(op, lhs, rhs)
	case "&":
		return bitwise(op, lhs, rhs, func(a, b int64) int64 { return a & b })
	case "|":
		return bitwise(op, lhs, rhs, func(a, b int64) int64 { return a | b })
	case "~":
		return bitwise(op, lhs, rhs, func(a, b int64) int64 { return a ^ b })
	case "<<":
		return bitwise(op, lhs, rhs, func(a, b int64) int64 {
			if b < 0 || b >= 64 {
				return 0
			}
			return a << uint(b)
		})
	case ">>":
		return bitwise(op, lhs, rhs, func(a, b int64) int64 {
			if b < 0 || b >= 64 {
				return 0
			}
			return int64(uint64(a) >> uint(b))
		})
	default:
		return value.Nil, nil, typeErr(op, "unknown operator")
	}
}

func applyUnary(op string, operand value.Value) (value.Value, value.ReverseUnary, error) {
	switch op {
	case "-":
		if !operand.IsNumber() {
			return value.Nil, nil, typeErr(op, "attempt to perform arithmetic on a "+operand.TypeName()+" value")
		}
		n := operand.AsNumber()
		if n.IsInt {
			return value.Int(-n.I), unaryMinusReverse{}, nil
		}
		return value.Float(-n.F), unaryMinusReverse{}, nil
	case "not":
		return value.Bool(!operand.Truthy()), notReverse{}, nil
	case "#":
		return length(operand)
	case "~":
		i, err := toInt64(op, operand)
		if err != nil {
			return value.Nil, nil, err
		}
		return value.Int(^i), nil, nil // bitwise not: no reverse
	default:
		return value.Nil, nil, typeErr(op, "unknown unary operator")
	}
}

func numOperands(op string, lhs, rhs value.Value) (value.Number, value.Number, error) {
	if !lhs.IsNumber() {
		return value.Number{}, value.Number{}, typeErr(op, "attempt to perform arithmetic on a "+lhs.TypeName()+" value")
	}
	if !rhs.IsNumber() {
		return value.Number{}, value.Number{}, typeErr(op, "attempt to perform arithmetic on a "+rhs.TypeName()+" value")
	}
	return lhs.AsNumber(), rhs.AsNumber(), nil
}

// arith implements the shared "int op int -> int unless overflow, else
// float; any float operand -> float" promotion rule for +, -, *.
func arith(op string, lhs, rhs value.Value, intOp func(a, b int64) (int64, bool), floatOp func(a, b float64) float64, rev value.ReverseBinary) (value.Value, value.ReverseBinary, error) {
	a, b, err := numOperands(op, lhs, rhs)
	if err != nil {
		return value.Nil, nil, err
	}
	if a.IsInt && b.IsInt {
		if r, ok := intOp(a.I, b.I); ok {
			return value.Int(r), rev, nil
		}
	}
	return value.Float(floatOp(a.Float(), b.Float())), rev, nil
}

func concat(lhs, rhs value.Value) (value.Value, value.ReverseBinary, error) {
	ls, err := coerceConcat(lhs)
	if err != nil {
		return value.Nil, nil, err
	}
	rs, err := coerceConcat(rhs)
	if err != nil {
		return value.Nil, nil, err
	}
	return value.String(ls + rs), concatReverse{}, nil
}

func coerceConcat(v value.Value) (string, error) {
	switch {
	case v.IsString():
		return v.AsString(), nil
	case v.IsNumber():
		return v.AsNumber().String(), nil
	default:
		return "", typeErr("..", "attempt to concatenate a "+v.TypeName()+" value")
	}
}

func compare(op string, lhs, rhs value.Value) (value.Value, value.ReverseBinary, error) {
	if lhs.IsNumber() && rhs.IsNumber() {
		a, b := lhs.AsNumber().Float(), rhs.AsNumber().Float()
		return value.Bool(cmpFloat(op, a, b)), nil, nil
	}
	if lhs.IsString() && rhs.IsString() {
		a, b := lhs.AsString(), rhs.AsString()
		return value.Bool(cmpString(op, a, b)), nil, nil
	}
	return value.Nil, nil, typeErr(op, "attempt to compare "+lhs.TypeName()+" with "+rhs.TypeName())
}

func cmpFloat(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func cmpString(op string, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func toInt64(op string, v value.Value) (int64, error) {
	if !v.IsNumber() {
		return 0, typeErr(op, "attempt to perform bitwise operation on a "+v.TypeName()+" value")
	}
	n := v.AsNumber()
	if n.IsInt {
		return n.I, nil
	}
	if n.F != math.Trunc(n.F) {
		return 0, typeErr(op, "number has no integer representation")
	}
	return int64(n.F), nil
}

func bitwise(op string, lhs, rhs value.Value, f func(a, b int64) int64) (value.Value, value.ReverseBinary, error) {
	a, err := toInt64(op, lhs)
	if err != nil {
		return value.Nil, nil, err
	}
	b, err := toInt64(op, rhs)
	if err != nil {
		return value.Nil, nil, err
	}
	return value.Int(f(a, b)), nil, nil // bitwise ops are never reversed
}

func length(v value.Value) (value.Value, value.ReverseUnary, error) {
	switch {
	case v.IsString():
		return value.Int(int64(len(v.AsString()))), nil, nil
	case v.IsTable():
		return value.Int(v.AsTable().Border()), nil, nil
	default:
		return value.Nil, nil, typeErr("#", "attempt to get length of a "+v.TypeName()+" value")
	}
}
