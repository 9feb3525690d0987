package value

import "github.com/sp-uulm/MiniLua-sub001/internal/source"

// Origin records the expression-tree fragment that produced a Value, and
// knows how to reverse itself: given a target Value, force proposes a
// SourceChange whose application would make re-evaluation yield target.
// Every variant from spec.md §3/§4.D is a concrete type implementing this
// interface; a nil Origin means "no provenance" (NoOrigin).
type Origin interface {
	force(target Value) (source.Change, bool)
}

// NoOrigin is the explicit form of "no provenance tracked" — equivalent to
// a nil Origin, kept as a concrete type so built-ins that want to be
// explicit about forgetting provenance can construct one.
type NoOrigin struct{}

func (NoOrigin) force(Value) (source.Change, bool) { return nil, false }

// Literal records that a Value came directly from a literal at Range.
type Literal struct {
	Range source.Range
}

func (l Literal) force(target Value) (source.Change, bool) {
	lit, err := target.ToLiteral()
	if err != nil {
		return nil, false
	}
	return source.Single{Range: l.Range, Replacement: lit, Origin: "literal"}, true
}

// ReverseUnary solves the unique operand value v such that applying the
// recorded unary operator to v yields a target result, if such a v exists
// and is defined (e.g. unary minus: v = -target).
type ReverseUnary interface {
	Solve(target Value) (Value, bool)
}

// UnaryOp records that a Value is the result of applying Op to Operand.
type UnaryOp struct {
	Op      string
	Operand Value
	Range   source.Range
	Reverse ReverseUnary // nil if this operator has no reverse (e.g. `#`)
}

func (u UnaryOp) force(target Value) (source.Change, bool) {
	if u.Reverse == nil {
		return nil, false
	}
	v, ok := u.Reverse.Solve(target)
	if !ok {
		return nil, false
	}
	return u.Operand.Force(v)
}

// ReverseBinary solves one operand of a binary operator while holding the
// other fixed. Both directions may be undefined (e.g. modulo is never
// reversed); either may also fail for a particular target (division by
// zero, non-finite result, wrong domain).
type ReverseBinary interface {
	SolveLHS(rhs, target Value) (Value, bool)
	SolveRHS(lhs, target Value) (Value, bool)
}

// BinaryOp records that a Value is the result of applying Op to Lhs and
// Rhs. force implements spec.md §4.D's general two-degrees-of-freedom
// reverse: try fixing each side in turn, keep whichever branches solve and
// whose recursive Force succeeds, and return them as an Or (or the single
// surviving branch unwrapped, or nothing if both vanish).
type BinaryOp struct {
	Op      string
	Lhs     Value
	Rhs     Value
	Range   source.Range
	Reverse ReverseBinary // nil if this operator has no reverse (e.g. `%`, comparisons)
}

func (b BinaryOp) force(target Value) (source.Change, bool) {
	if b.Reverse == nil {
		return nil, false
	}
	var branches []source.Change

	if rhsFixed, ok := b.Reverse.SolveLHS(b.Rhs, target); ok {
		if ch, ok2 := b.Lhs.Force(rhsFixed); ok2 {
			branches = append(branches, ch)
		}
	}
	if lhsFixed, ok := b.Reverse.SolveRHS(b.Lhs, target); ok {
		if ch, ok2 := b.Rhs.Force(lhsFixed); ok2 {
			branches = append(branches, ch)
		}
	}

	if len(branches) == 0 {
		return nil, false
	}
	return source.Alternative(branches...), true
}

// ReverseExternal resolves a native-call Origin's reverse: given the
// original call arguments and a desired result, it picks which argument to
// recurse into and the value that argument would need to take.
type ReverseExternal interface {
	Solve(args Vallist, target Value) (argIndex int, newVal Value, ok bool)
}

// ExternalFunction records that a Value is the result of a native call
// (spec.md §4.H: math.sin, math.abs, ...). Reverse is nil for built-ins
// that register no reverse (math.floor, math.ceil, crypto hashes, ...) — force then
// simply proposes nothing, which is not an error (spec.md §7).
type ExternalFunction struct {
	Name    string
	Args    Vallist
	Range   source.Range
	Reverse ReverseExternal
}

func (e ExternalFunction) force(target Value) (source.Change, bool) {
	if e.Reverse == nil {
		return nil, false
	}
	idx, newVal, ok := e.Reverse.Solve(e.Args, target)
	if !ok {
		return nil, false
	}
	arg := e.Args.Get(idx)
	return arg.Force(newVal)
}

// MultipleOrigins is a value produced by several paths that should all be
// considered when forcing (spec.md §3/§4.D).
type MultipleOrigins struct {
	List []Origin
}

func (m MultipleOrigins) force(target Value) (source.Change, bool) {
	var branches []source.Change
	for _, o := range m.List {
		if o == nil {
			continue
		}
		if ch, ok := o.force(target); ok {
			branches = append(branches, ch)
		}
	}
	if len(branches) == 0 {
		return nil, false
	}
	return source.Alternative(branches...), true
}
