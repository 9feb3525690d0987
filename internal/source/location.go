// Package source implements byte/row/column locations and the source-change
// edit algebra that the evaluator uses to propose edits when forcing a value.
package source

import "fmt"

// Location is a single point in source text.
type Location struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Byte   int // 0-based byte offset
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Less orders locations by byte offset.
func (l Location) Less(other Location) bool {
	return l.Byte < other.Byte
}

// Range is a half-open [Start, End) span of source text.
type Range struct {
	Start Location
	End   Location
}

// Contains reports whether p falls within the range.
func (r Range) Contains(p Location) bool {
	return !p.Less(r.Start) && p.Less(r.End)
}

// Overlaps reports whether the two ranges share any byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Byte < other.End.Byte && other.Start.Byte < r.End.Byte
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Zero is the range used for synthetic values that don't come from source
// text (e.g. results of built-ins with no registered reverse).
var Zero = Range{}
