package parser

import (
	"testing"

	"github.com/sp-uulm/MiniLua-sub001/internal/ast"
)

func assertParseSuccess(t *testing.T, input, description string) []ast.Stmt {
	t.Helper()
	res, _ := Parse(input)
	if len(res.Errors) > 0 {
		t.Fatalf("%s: parsing failed with errors: %v", description, res.Errors)
	}
	return res.Block
}

func assertParseError(t *testing.T, input, description string) {
	t.Helper()
	res, _ := Parse(input)
	if len(res.Errors) == 0 {
		t.Fatalf("%s: expected parsing to fail but it succeeded", description)
	}
}

func TestLocalDeclAndAssignment(t *testing.T) {
	block := assertParseSuccess(t, `local x, y = 1, 2
x = x + y`, "local+assign")
	if len(block) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block))
	}
	decl, ok := block[0].(*ast.LocalDecl)
	if !ok || len(decl.Names) != 2 {
		t.Fatalf("expected LocalDecl with 2 names, got %#v", block[0])
	}
	assign, ok := block[1].(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %#v", block[1])
	}
	if _, ok := assign.Values[0].(*ast.BinaryOp); !ok {
		t.Fatalf("expected binary op rhs, got %#v", assign.Values[0])
	}
}

func TestIfElseif(t *testing.T) {
	block := assertParseSuccess(t, `if a then
  return 1
elseif b then
  return 2
else
  return 3
end`, "if/elseif/else")
	node, ok := block[0].(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %#v", block[0])
	}
	if len(node.Clauses) != 2 || node.Else == nil {
		t.Fatalf("expected 2 clauses + else, got %d clauses, else=%v", len(node.Clauses), node.Else)
	}
}

func TestNumericForAndGenericFor(t *testing.T) {
	block := assertParseSuccess(t, `for i = 1, 10, 2 do end
for k, v in pairs(t) do end`, "for loops")
	if _, ok := block[0].(*ast.NumericFor); !ok {
		t.Fatalf("expected NumericFor, got %#v", block[0])
	}
	gf, ok := block[1].(*ast.GenericFor)
	if !ok || len(gf.Names) != 2 {
		t.Fatalf("expected GenericFor with 2 names, got %#v", block[1])
	}
}

func TestOperatorPrecedenceAndRightAssoc(t *testing.T) {
	block := assertParseSuccess(t, `local x = 1 + 2 * 3 ^ 2 ^ 2 .. "s"`, "precedence")
	decl := block[0].(*ast.LocalDecl)
	// `..` binds looser than `+`, so top node should be BinaryOp ".."
	top, ok := decl.Values[0].(*ast.BinaryOp)
	if !ok || top.Op != ".." {
		t.Fatalf("expected top-level '..' node, got %#v", decl.Values[0])
	}
	// rhs of `^` chain should be right-associative: 3 ^ (2 ^ 2)
	add := top.Lhs.(*ast.BinaryOp)
	mul := add.Rhs.(*ast.BinaryOp)
	pow := mul.Rhs.(*ast.BinaryOp)
	if pow.Op != "^" {
		t.Fatalf("expected '^' node, got %#v", mul.Rhs)
	}
	if _, ok := pow.Rhs.(*ast.BinaryOp); !ok {
		t.Fatalf("expected right-associative '^' nesting, got %#v", pow.Rhs)
	}
}

func TestFunctionDeclAndMethodCall(t *testing.T) {
	block := assertParseSuccess(t, `function t:m(a, b) return a + b end
t:m(1, 2)`, "method decl+call")
	decl, ok := block[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %#v", block[0])
	}
	if len(decl.Fn.Params) != 3 || decl.Fn.Params[0] != "self" {
		t.Fatalf("expected implicit self param, got %v", decl.Fn.Params)
	}
	stmt, ok := block[1].(*ast.CallStmt)
	if !ok {
		t.Fatalf("expected CallStmt, got %#v", block[1])
	}
	if _, ok := stmt.Call.(*ast.MethodCall); !ok {
		t.Fatalf("expected MethodCall, got %#v", stmt.Call)
	}
}

func TestLocalFunctionDeclSetsIsLocal(t *testing.T) {
	block := assertParseSuccess(t, `local function fact(n)
	if n <= 1 then return 1 end
	return n * fact(n - 1)
end`, "local function decl")
	decl, ok := block[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %#v", block[0])
	}
	if !decl.IsLocal {
		t.Fatalf("expected IsLocal to be set for 'local function'")
	}
	if decl.Target != nil {
		t.Fatalf("expected nil Target for a plain local function, got %#v", decl.Target)
	}
	if decl.Name != "fact" {
		t.Fatalf("expected Name %q, got %q", "fact", decl.Name)
	}
	if len(decl.Fn.Params) != 1 || decl.Fn.Params[0] != "n" {
		t.Fatalf("expected single param %q, got %v", "n", decl.Fn.Params)
	}
}

func TestTableConstructorMixedFields(t *testing.T) {
	block := assertParseSuccess(t, `local t = { 1, 2, name = "x", [1+1] = "y" }`, "table ctor")
	decl := block[0].(*ast.LocalDecl)
	tc := decl.Values[0].(*ast.TableConstructor)
	if len(tc.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(tc.Fields))
	}
	if tc.Fields[0].Key != nil {
		t.Fatalf("expected first field to be positional")
	}
	nameKey, ok := tc.Fields[2].Key.(*ast.Literal)
	if !ok || nameKey.Str != "name" {
		t.Fatalf("expected synthesized string key 'name', got %#v", tc.Fields[2].Key)
	}
}

func TestMalformedInputReportsError(t *testing.T) {
	assertParseError(t, `local x = `, "missing rhs")
	assertParseError(t, `if a then return 1`, "missing end")
}

func TestGotoAndLabel(t *testing.T) {
	block := assertParseSuccess(t, `::top::
goto top`, "goto/label")
	if _, ok := block[0].(*ast.Label); !ok {
		t.Fatalf("expected Label, got %#v", block[0])
	}
	if _, ok := block[1].(*ast.Goto); !ok {
		t.Fatalf("expected Goto, got %#v", block[1])
	}
}
