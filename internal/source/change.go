package source

import "fmt"

// Change is the sum type of source-edit terms: a leaf replacement, a
// conjunction of edits that must all be applied together, or a set of
// alternatives the consumer picks one of.
type Change interface {
	isChange()
	// Visit recursively applies f to every Single leaf in the tree.
	Visit(f func(Single))
	fmt.Stringer
}

// Single replaces the text at Range with Replacement.
type Single struct {
	Range       Range
	Replacement string
	Origin      string // free-form, surfaced to the UI
	Hint        string
}

func (Single) isChange() {}

// Visit implements Change.
func (s Single) Visit(f func(Single)) { f(s) }

func (s Single) String() string {
	return fmt.Sprintf("Single{%s -> %q}", s.Range, s.Replacement)
}

// And is a conjunction: every child must be applied to achieve the effect.
type And struct {
	Children []Change
}

func (And) isChange() {}

func (a And) Visit(f func(Single)) {
	for _, c := range a.Children {
		c.Visit(f)
	}
}

func (a And) String() string {
	return fmt.Sprintf("And%v", a.Children)
}

// Or is a set of alternatives; the consumer chooses one.
type Or struct {
	Origin   string
	Hint     string
	Children []Change
}

func (Or) isChange() {}

func (o Or) Visit(f func(Single)) {
	for _, c := range o.Children {
		c.Visit(f)
	}
}

func (o Or) String() string {
	return fmt.Sprintf("Or%v", o.Children)
}

// Combine returns And{a, b}, flattening nested Ands so combine chains don't
// build up deeply nested trees.
func Combine(a, b Change) Change {
	var children []Change
	if and, ok := a.(And); ok {
		children = append(children, and.Children...)
	} else {
		children = append(children, a)
	}
	if and, ok := b.(And); ok {
		children = append(children, and.Children...)
	} else {
		children = append(children, b)
	}
	return And{Children: children}
}

// Alternative returns Or{cs}; if exactly one change is supplied it is
// returned unwrapped, matching §4.A's "single child is returned unwrapped"
// contract.
func Alternative(cs ...Change) Change {
	switch len(cs) {
	case 0:
		return nil
	case 1:
		return cs[0]
	default:
		return Or{Children: cs}
	}
}
