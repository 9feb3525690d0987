package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers this binary's own CLI dispatch (run, not os.Exit'd
// directly) as a virtual command named "minilua" inside the testscript
// sandbox, following rogpeppe/go-internal/testscript's standard
// RunMain(m, map[string]func() int) pattern.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"minilua": func() int { return run(os.Args[1:]) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
