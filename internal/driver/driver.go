// Package driver implements spec.md §4.I's parse -> evaluate -> result
// pipeline, generalized from the teacher's cmd/sentra run-file flow
// (load source, run, report a stack trace on failure) to the explicit
// ParseResult/EvalResult/apply_source_changes contract spec.md names.
package driver

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/ast"
	"github.com/sp-uulm/MiniLua-sub001/internal/builtins"
	"github.com/sp-uulm/MiniLua-sub001/internal/errorsx"
	"github.com/sp-uulm/MiniLua-sub001/internal/eval"
	"github.com/sp-uulm/MiniLua-sub001/internal/parser"
	"github.com/sp-uulm/MiniLua-sub001/internal/source"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// ParseResult is spec.md §4.I's `parse(source) -> ParseResult{ok, errors}`.
type ParseResult struct {
	OK     bool
	Errors []*parser.SyntaxError
}

// EvalResult is spec.md §4.I's `evaluate() -> EvalResult{value, source_change?}`.
type EvalResult struct {
	Value        value.Value
	SourceChange source.Change // Evaluate leaves this nil; proposals come from Force
	Err          *errorsx.InterpreterError
}

// Driver owns one source text, its last parse, and the Interpreter/Arena
// pair it evaluates against — one Driver per program, never shared across
// concurrent evaluations (spec.md §5: distinct interpreters must not share
// an arena).
type Driver struct {
	source string
	tree   []ast.Stmt
	parsed *ParseResult

	Trace bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	lastVisits  int
	lastElapsed time.Duration
}

// New creates a Driver over the given source text, unparsed.
func New(src string) *Driver {
	return &Driver{source: src}
}

// Source returns the current stored source text.
func (d *Driver) Source() string { return d.source }

// Parse tokenizes and parses the stored source, caching the resulting tree
// for the next Evaluate call.
func (d *Driver) Parse() ParseResult {
	res, _ := parser.Parse(d.source)
	d.tree = res.Block
	pr := ParseResult{OK: len(res.Errors) == 0, Errors: res.Errors}
	d.parsed = &pr
	return pr
}

// Evaluate runs the last-parsed tree (parsing first if Parse was never
// called) against a fresh Interpreter/Arena pair and reports the terminal
// Value, per spec.md §4.I.
func (d *Driver) Evaluate() EvalResult {
	if d.parsed == nil {
		if pr := d.Parse(); !pr.OK {
			return EvalResult{Err: errorsx.New(errorsx.Parse, firstParseMessage(pr.Errors), nil)}
		}
	} else if !d.parsed.OK {
		return EvalResult{Err: errorsx.New(errorsx.Parse, firstParseMessage(d.parsed.Errors), nil)}
	}

	arena := allocator.New()
	in := eval.New(arena)
	builtins.Register(in.Env, arena)
	if d.Stdin != nil {
		in.Env.SetStdin(d.Stdin)
	}
	if d.Stdout != nil {
		in.Env.SetStdout(d.Stdout)
	}
	if d.Stderr != nil {
		in.Env.SetStderr(d.Stderr)
	}

	start := time.Now()
	vals, err := in.Run(d.tree)
	d.lastElapsed = time.Since(start)
	d.lastVisits = in.Visits()

	if d.Trace {
		fmt.Printf("[trace] arena %s: %s body entries, elapsed %s\n",
			arena.ID, humanize.Comma(int64(d.lastVisits)), d.lastElapsed)
	}

	if err != nil {
		ie, ok := err.(*errorsx.InterpreterError)
		if !ok {
			ie = errorsx.New(errorsx.RuntimeAssertion, err.Error(), err)
		}
		if d.Trace {
			fmt.Println(pretty.Sprint(ie))
		}
		return EvalResult{Err: ie}
	}

	return EvalResult{Value: vals.First()}
}

// Force asks the last Evaluate result's Value to propose a SourceChange
// that would make it equal target, a thin convenience wrapper so callers
// don't need to reach into value.Value directly.
func Force(v value.Value, target value.Value) (source.Change, bool) {
	return v.Force(target)
}

// ApplySourceChanges rewrites the stored source text by applying every
// Single leaf of changes as a textual splice, in descending byte offset so
// earlier edits don't invalidate later ranges' offsets — spec.md §4.I's
// "rewrites the stored source by applying non-overlapping Single leaves in
// descending byte offset." The next Evaluate call re-parses from scratch.
func (d *Driver) ApplySourceChanges(changes source.Change) {
	if changes == nil {
		return
	}
	var singles []source.Single
	changes.Visit(func(s source.Single) { singles = append(singles, s) })
	sort.Slice(singles, func(i, j int) bool {
		return singles[i].Range.Start.Byte > singles[j].Range.Start.Byte
	})

	text := []byte(d.source)
	for _, s := range singles {
		start, end := s.Range.Start.Byte, s.Range.End.Byte
		if start < 0 || end > len(text) || start > end {
			continue
		}
		var buf []byte
		buf = append(buf, text[:start]...)
		buf = append(buf, []byte(s.Replacement)...)
		buf = append(buf, text[end:]...)
		text = buf
	}
	d.source = string(text)
	d.parsed = nil
	d.tree = nil
}

func firstParseMessage(errs []*parser.SyntaxError) string {
	if len(errs) == 0 {
		return "parse failed"
	}
	return errs[0].Error()
}
