package scripttest

import (
	"strings"
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

func TestParseExpectationsCollectsDirective(t *testing.T) {
	src := "-- EXPECT SOURCE_CHANGE 1:8 \"14\"\nreturn 25 + 13\n"
	exps := ParseExpectations(src)
	if len(exps) != 1 {
		t.Fatalf("expected 1 expectation, got %d", len(exps))
	}
}

func TestRunMatchesArithmeticForceExpectation(t *testing.T) {
	err := Run(Fixture{
		Name:   "arith",
		Source: "return 25 + 13",
		Target: value.Int(27),
	})
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
}

func TestRunFailsWhenExpectedChangeIsUnsatisfiable(t *testing.T) {
	err := Run(Fixture{
		Name:   "no-origin",
		Source: "-- EXPECT SOURCE_CHANGE 1:1 \"oops\"\nreturn crypto.sha256(\"hi\")",
		Target: value.String("anything"),
	})
	if err == nil {
		t.Fatalf("expected a failure since a hash result registers no reverse")
	}
}

func TestRunAllPreservesOrderAcrossConcurrentFixtures(t *testing.T) {
	fixtures := []Fixture{
		{Name: "a", Source: "return 1 + 1", Target: value.Int(3)},
		{Name: "b", Source: "return 2 + 2", Target: value.Int(5)},
		{Name: "c", Source: "return 3 + 3", Target: value.Int(7)},
	}
	results := RunAll(fixtures)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Name != fixtures[i].Name {
			t.Fatalf("result %d out of order: got %q want %q", i, r.Name, fixtures[i].Name)
		}
		if r.Err != nil {
			t.Fatalf("fixture %q failed: %v", r.Name, r.Err)
		}
	}
}

func TestRunReportsEvaluationFailureWithFixtureName(t *testing.T) {
	err := Run(Fixture{Name: "broken", Source: "return 1 +", Target: value.Int(1)})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected the error to name the failing fixture, got %v", err)
	}
}
