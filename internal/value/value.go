// Package value implements the tagged-union runtime value (spec.md §3/§4.C)
// together with the Origin algebra that lets a Value be "forced" back into a
// proposed source edit (spec.md §4.D).
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sp-uulm/MiniLua-sub001/internal/source"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindTable
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Number is Lua 5.3's int/float distinction: a Value that is internally
// either an int64 or a float64, with arithmetic promotion rules defined in
// internal/operator. spec.md flags this split as an intentional upgrade
// over the observed source's single-double Number (see DESIGN.md).
type Number struct {
	IsInt bool
	I     int64
	F     float64
}

// IntNumber builds an integer Number.
func IntNumber(i int64) Number { return Number{IsInt: true, I: i} }

// FloatNumber builds a float Number.
func FloatNumber(f float64) Number { return Number{IsInt: false, F: f} }

// Float returns the number as a float64 regardless of sub-kind.
func (n Number) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}

func (n Number) String() string {
	if n.IsInt {
		return strconv.FormatInt(n.I, 10)
	}
	f := n.F
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Function is any callable Value: a native Go function or a closure over a
// syntax-tree body and a captured environment. It is an interface rather
// than a concrete struct so that internal/value never needs to import
// internal/eval (closures) or internal/builtins (natives) — both of those
// packages import internal/value instead, breaking the cycle.
type Function interface {
	Name() string
	Call(args Vallist) (Vallist, error)
}

// Value is the discriminated union described in spec.md §3, plus an
// optional Origin recording how it was derived.
type Value struct {
	kind   Kind
	b      bool
	n      Number
	s      string
	table  *Table
	fn     Function
	origin Origin
}

// Nil is the singleton nil value with no origin.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int constructs an integer-kind Number Value.
func Int(i int64) Value { return Value{kind: KindNumber, n: IntNumber(i)} }

// Float constructs a float-kind Number Value.
func Float(f float64) Value { return Value{kind: KindNumber, n: FloatNumber(f)} }

// NumberValue wraps an already-constructed Number.
func NumberValue(n Number) Value { return Value{kind: KindNumber, n: n} }

// String constructs a string Value. Lua strings are 8-bit clean; Go strings
// already satisfy that (they're just byte sequences), so no transcoding
// happens here.
func String(s string) Value { return Value{kind: KindString, s: s} }

// TableValue wraps a *Table.
func TableValue(t *Table) Value { return Value{kind: KindTable, table: t} }

// FunctionValue wraps a Function.
func FunctionValue(fn Function) Value { return Value{kind: KindFunction, fn: fn} }

// Kind reports the variant held.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool      { return v.kind == KindNil }
func (v Value) IsBool() bool     { return v.kind == KindBool }
func (v Value) IsNumber() bool   { return v.kind == KindNumber }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsTable() bool    { return v.kind == KindTable }
func (v Value) IsFunction() bool { return v.kind == KindFunction }

// AsBool returns the boolean payload; only valid when IsBool().
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the Number payload; only valid when IsNumber().
func (v Value) AsNumber() Number { return v.n }

// AsString returns the string payload; only valid when IsString().
func (v Value) AsString() string { return v.s }

// AsTable returns the table payload; only valid when IsTable().
func (v Value) AsTable() *Table { return v.table }

// AsFunction returns the function payload; only valid when IsFunction().
func (v Value) AsFunction() Function { return v.fn }

// Truthy implements spec.md §4.C's truthiness rule: nil and false are
// false; every other value — including 0 and "" — is true.
func (v Value) Truthy() bool {
	if v.kind == KindNil {
		return false
	}
	if v.kind == KindBool {
		return v.b
	}
	return true
}

// Origin returns the value's provenance, or nil for NoOrigin.
func (v Value) Origin() Origin { return v.origin }

// WithOrigin returns a copy of v tagged with the given Origin.
func (v Value) WithOrigin(o Origin) Value {
	v.origin = o
	return v
}

// RemoveOrigin returns a copy of v with NoOrigin.
func (v Value) RemoveOrigin() Value {
	v.origin = nil
	return v
}

// Force asks v's Origin to produce a SourceChange that would make
// re-evaluation yield target. Absence of an Origin (or an Origin that
// cannot solve for target) is not an error — it's simply an absent
// proposal, per spec.md §7.
func (v Value) Force(target Value) (source.Change, bool) {
	if v.origin == nil {
		return nil, false
	}
	return v.origin.force(target)
}

// Equal implements spec.md's Value equality: structural for
// nil/bool/number/string, identity (handle) for table and function. Origin
// is always ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n.Float() == b.n.Float() && (a.n.IsInt == b.n.IsInt || a.n.Float() == b.n.Float())
	case KindString:
		return a.s == b.s
	case KindTable:
		return a.table.Equal(b.table)
	case KindFunction:
		return a.fn == b.fn
	default:
		return false
	}
}

// NotRepresentable is returned by ToLiteral for values with no source-level
// literal form (functions, self-recursive tables).
type NotRepresentable struct {
	Kind string
}

func (e *NotRepresentable) Error() string {
	return fmt.Sprintf("value of kind %q is not representable as a literal", e.Kind)
}

// ToLiteral renders v as source-language literal text, per spec.md §4.C.
// Tables recurse into their fields; a visited set of table handles (not a
// depth counter, per spec.md §9) detects self-reference and fails instead
// of looping forever.
func (v Value) ToLiteral() (string, error) {
	return v.toLiteral(map[*Table]bool{})
}

func (v Value) toLiteral(visited map[*Table]bool) (string, error) {
	switch v.kind {
	case KindNil:
		return "nil", nil
	case KindBool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case KindNumber:
		return v.n.String(), nil
	case KindString:
		return quoteLuaString(v.s), nil
	case KindTable:
		if visited[v.table] {
			return "", &NotRepresentable{Kind: "self-recursive table"}
		}
		visited[v.table] = true
		return v.table.toLiteral(visited)
	case KindFunction:
		return "", &NotRepresentable{Kind: "function"}
	default:
		return "", &NotRepresentable{Kind: "unknown"}
	}
}

func quoteLuaString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindTable:
		return v.table.String()
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.fn.Name())
	default:
		return "<invalid>"
	}
}

// TypeName returns the Lua-visible type name, used by the `type` built-in.
func (v Value) TypeName() string {
	return v.kind.String()
}
