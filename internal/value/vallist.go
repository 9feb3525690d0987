package value

// Vallist is an ordered, finite sequence of Values used for argument
// passing and multi-return (spec.md §3).
type Vallist []Value

// NewVallist builds a Vallist from individual values.
func NewVallist(vs ...Value) Vallist { return Vallist(vs) }

// Get returns the i'th value (0-based), or Nil if out of range — spec.md's
// "destructuring to N positions pads with Nil".
func (vl Vallist) Get(i int) Value {
	if i < 0 || i >= len(vl) {
		return Nil
	}
	return vl[i]
}

// First returns the first value, or Nil if empty. Used wherever a
// multi-value expression is used in a single-value context.
func (vl Vallist) First() Value {
	return vl.Get(0)
}

// PadTo returns a Vallist of exactly n values, truncating or padding with
// Nil as needed.
func (vl Vallist) PadTo(n int) Vallist {
	out := make(Vallist, n)
	for i := 0; i < n; i++ {
		out[i] = vl.Get(i)
	}
	return out
}

// Concat appends other after vl.
func (vl Vallist) Concat(other Vallist) Vallist {
	out := make(Vallist, 0, len(vl)+len(other))
	out = append(out, vl...)
	out = append(out, other...)
	return out
}
