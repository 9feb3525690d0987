// Package repl implements an interactive read-eval-print loop over
// internal/driver, generalized from the teacher's internal/repl/repl.go
// scan-line/lex/parse/run loop. Unlike the teacher's REPL (which rebuilds
// a fresh VM chunk and resets the whole machine per line), this REPL keeps
// one Interpreter/Environment alive across lines so locals and functions
// declared on one line are visible on the next.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/builtins"
	"github.com/sp-uulm/MiniLua-sub001/internal/eval"
	"github.com/sp-uulm/MiniLua-sub001/internal/parser"
)

// Options configures Start's streams and prompt behavior.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Prompt string // defaults to ">>> "
}

// Start runs the loop until In is exhausted or a line reading "exit" is
// entered, printing each evaluated line's result to Out. The prompt is
// only written when Out is a terminal (github.com/mattn/go-isatty),
// matching the teacher's terminal-aware CLI conventions generalized from
// "always print" to "print only when attached to a tty".
func Start(opts Options) {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = ">>> "
	}

	arena := allocator.New()
	in := eval.New(arena)
	builtins.Register(in.Env, arena)
	in.Env.SetStdout(opts.Out)
	in.Env.SetStdin(opts.In)

	interactive := isTerminal(opts.Out)
	if interactive {
		fmt.Fprintln(opts.Out, "MiniLua REPL | type 'exit' to quit")
	}

	scanner := bufio.NewScanner(opts.In)
	for {
		if interactive {
			fmt.Fprint(opts.Out, prompt)
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" {
			return
		}
		if line == "" {
			continue
		}

		res, _ := parser.Parse(line)
		if len(res.Errors) > 0 {
			// A bare expression isn't valid as a statement; retry as
			// `return <line>` so `>>> 1 + 1` behaves like a calculator.
			res2, _ := parser.Parse("return " + line)
			if len(res2.Errors) > 0 {
				for _, e := range res.Errors {
					fmt.Fprintln(opts.Out, e.Error())
				}
				continue
			}
			res = res2
		}

		vals, err := in.Run(res.Block)
		if err != nil {
			fmt.Fprintln(opts.Out, err.Error())
			continue
		}
		if len(vals) > 0 {
			fmt.Fprintln(opts.Out, vals.First().String())
		}
	}
}

func isTerminal(w io.Writer) bool {
	type fdHaver interface{ Fd() uintptr }
	f, ok := w.(fdHaver)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
