// Command minilua is the §6 CLI surface for the bidirectional-evaluation
// Lua-subset interpreter: run a file, start a REPL, or run the
// "-- EXPECT SOURCE_CHANGE" fixture suite, following the teacher's
// cmd/sentra/main.go alias-table/usage-function shape trimmed down to
// this module's actual surface (no build/lint/fmt/watch/package-manager
// commands, since those concerns don't exist here).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sp-uulm/MiniLua-sub001/internal/driver"
	"github.com/sp-uulm/MiniLua-sub001/internal/repl"
	"github.com/sp-uulm/MiniLua-sub001/internal/scripttest"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// commandAliases mirrors the teacher's short-form alias map, trimmed to
// the three subcommands this CLI actually has.
var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"t": "test",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the full CLI dispatch and returns the process exit code,
// split out from main so internal/scripttest-style golden tests can drive
// it via testscript.RunMain without forking a real subprocess per case.
func run(args []string) int {
	if len(args) == 0 {
		showUsage()
		return 1
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}
	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return 0
	}

	switch cmd {
	case "run":
		return runCommand(args[1:])
	case "repl":
		repl.Start(repl.Options{In: os.Stdin, Out: os.Stdout})
		return 0
	case "test":
		return testCommand(args[1:])
	default:
		showUsage()
		return 1
	}
}

// runCommand implements spec.md §6's "prog [--trace] <file>" contract:
// exits 0 on success, 1 on usage, 2 on load failure, 3 on parse failure,
// 4 on evaluation failure; writes the final Value's literal form and any
// produced SourceChange to stderr.
func runCommand(args []string) int {
	trace := false
	var filename string
	for _, a := range args {
		if a == "--trace" {
			trace = true
			continue
		}
		filename = a
	}
	if filename == "" {
		fmt.Fprintln(os.Stderr, "usage: minilua run [--trace] <file>")
		return 1
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", filename, err)
		return 2
	}

	d := driver.New(string(src))
	d.Trace = trace
	d.Stdout = os.Stdout
	d.Stdin = os.Stdin

	if pr := d.Parse(); !pr.OK {
		for _, e := range pr.Errors {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return 3
	}

	res := d.Evaluate()
	if res.Err != nil {
		fmt.Fprintln(os.Stderr, res.Err.Error())
		return 4
	}

	lit, err := res.Value.ToLiteral()
	if err != nil {
		lit = res.Value.String()
	}
	fmt.Fprintln(os.Stderr, lit)
	if res.SourceChange != nil {
		fmt.Fprintln(os.Stderr, res.SourceChange.String())
	}
	return 0
}

// testCommand runs every *.lua fixture named on the command line through
// internal/scripttest. Target defaults to Nil; fixtures that declare their
// own "-- FORCE <literal>" directive override it (scripttest.Run reads
// that directive straight out of the fixture source).
func testCommand(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: minilua test <file.lua>...")
		return 1
	}

	var fixtures []scripttest.Fixture
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
			return 2
		}
		fixtures = append(fixtures, scripttest.Fixture{
			Name:   filepath.Base(path),
			Source: string(src),
			Target: value.Nil,
		})
	}

	failed := 0
	for _, res := range scripttest.RunAll(fixtures) {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", res.Name, res.Err)
			failed++
		} else {
			fmt.Printf("ok   %s\n", res.Name)
		}
	}
	if failed > 0 {
		return 4
	}
	return 0
}

func showUsage() {
	fmt.Println("minilua - bidirectional-evaluation Lua-subset interpreter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  minilua run [--trace] <file.lua>   Run a script               (alias: r)")
	fmt.Println("  minilua repl                       Start the interactive REPL (alias: i)")
	fmt.Println("  minilua test <file.lua>...         Run EXPECT-annotated fixtures (alias: t)")
}
