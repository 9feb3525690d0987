// Package ast defines the syntax-tree node kinds spec.md §6 requires the
// (externally specified) parser to produce: every statement/expression
// carries a byte/line/column Range. internal/eval dispatches over these
// kinds with a plain Go type switch rather than a visitor, so node types
// here expose only the Range every evaluator case needs.
package ast

import "github.com/sp-uulm/MiniLua-sub001/internal/source"

// Expr is any expression node.
type Expr interface {
	Range() source.Range
}

// Stmt is any statement node.
type Stmt interface {
	Range() source.Range
}

// --- expressions ---

// LiteralKind distinguishes the four literal forms spec.md §6 names.
type LiteralKind int

const (
	LitNil LiteralKind = iota
	LitBool
	LitNumber
	LitString
)

// Literal is a nil/bool/number/string constant.
type Literal struct {
	Kind  LiteralKind
	Bool  bool
	IsInt bool
	Int   int64
	Float float64
	Str   string
	Rng   source.Range
}

func (l *Literal) Range() source.Range { return l.Rng }

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Rng  source.Range
}

func (i *Identifier) Range() source.Range { return i.Rng }

// Vararg is `...`.
type Vararg struct {
	Rng source.Range
}

func (va *Vararg) Range() source.Range { return va.Rng }

// BinaryOp is `lhs op rhs`, including `and`/`or` (short-circuit is handled
// by the evaluator, not baked into this node).
type BinaryOp struct {
	Op  string
	Lhs Expr
	Rhs Expr
	Rng source.Range
}

func (b *BinaryOp) Range() source.Range { return b.Rng }

// UnaryOp is `op operand`.
type UnaryOp struct {
	Op      string
	Operand Expr
	Rng     source.Range
}

func (u *UnaryOp) Range() source.Range { return u.Rng }

// FunctionDef is `function(params, ...) body end` (anonymous; a
// FunctionDecl statement is sugar around assigning one of these to a name).
type FunctionDef struct {
	Params []string
	Vararg bool
	Body   []Stmt
	Rng    source.Range
}

func (f *FunctionDef) Range() source.Range { return f.Rng }

// Call is `callee(args...)`.
type Call struct {
	Callee Expr
	Args   []Expr
	Rng    source.Range
}

func (c *Call) Range() source.Range { return c.Rng }

// MethodCall is `obj:name(args...)`, desugared by the evaluator into
// `obj.name(obj, args...)` with obj evaluated once (spec.md §4.G).
type MethodCall struct {
	Object Expr
	Method string
	Args   []Expr
	Rng    source.Range
}

func (m *MethodCall) Range() source.Range { return m.Rng }

// Index is `object[indexExpr]`.
type Index struct {
	Object Expr
	Key    Expr
	Rng    source.Range
}

func (i *Index) Range() source.Range { return i.Rng }

// Field is `object.name`.
type Field struct {
	Object Expr
	Name   string
	Rng    source.Range
}

func (f *Field) Range() source.Range { return f.Rng }

// TableField is one entry of a TableConstructor: positional (Key == nil),
// named (`name = value`, Key is a string Literal synthesized by the
// parser), or explicit (`[k] = v`).
type TableField struct {
	Key   Expr // nil for a purely positional field
	Value Expr
}

// TableConstructor is `{ field, field, name = value, [k] = v, ... }`.
type TableConstructor struct {
	Fields []TableField
	Rng    source.Range
}

func (t *TableConstructor) Range() source.Range { return t.Rng }

// --- statements ---

// LValue is anything assignable: an Identifier, Index, or Field.
type LValue = Expr

// Assign is `lhsList = rhsList`.
type Assign struct {
	Targets []LValue
	Values  []Expr
	Rng     source.Range
}

func (a *Assign) Range() source.Range { return a.Rng }

// LocalDecl is `local name(s) = value(s)`.
type LocalDecl struct {
	Names  []string
	Values []Expr
	Rng    source.Range
}

func (l *LocalDecl) Range() source.Range { return l.Rng }

// IfClause is one `if`/`elseif` arm.
type IfClause struct {
	Cond Expr
	Body []Stmt
}

// If is `if ... elseif ... else ... end`.
type If struct {
	Clauses []IfClause
	Else    []Stmt // nil if no else branch
	Rng     source.Range
}

func (i *If) Range() source.Range { return i.Rng }

// While is `while cond do body end`.
type While struct {
	Cond Expr
	Body []Stmt
	Rng  source.Range
}

func (w *While) Range() source.Range { return w.Rng }

// Repeat is `repeat body until cond` (cond can see body's locals).
type Repeat struct {
	Body []Stmt
	Cond Expr
	Rng  source.Range
}

func (r *Repeat) Range() source.Range { return r.Rng }

// NumericFor is `for name = start, stop[, step] do body end`.
type NumericFor struct {
	Name  string
	Start Expr
	Stop  Expr
	Step  Expr // nil means default step of 1
	Body  []Stmt
	Rng   source.Range
}

func (f *NumericFor) Range() source.Range { return f.Rng }

// GenericFor is `for names in exprs do body end`.
type GenericFor struct {
	Names []string
	Exprs []Expr
	Body  []Stmt
	Rng   source.Range
}

func (f *GenericFor) Range() source.Range { return f.Rng }

// Return is `return expr, expr, ...`.
type Return struct {
	Values []Expr
	Rng    source.Range
}

func (r *Return) Range() source.Range { return r.Rng }

// Break is `break`.
type Break struct {
	Rng source.Range
}

func (b *Break) Range() source.Range { return b.Rng }

// Goto is `goto label`.
type Goto struct {
	Label string
	Rng   source.Range
}

func (g *Goto) Range() source.Range { return g.Rng }

// Label is `::label::`.
type Label struct {
	Name string
	Rng  source.Range
}

func (l *Label) Range() source.Range { return l.Rng }

// DoBlock is `do body end` — an explicit nested scope.
type DoBlock struct {
	Body []Stmt
	Rng  source.Range
}

func (d *DoBlock) Range() source.Range { return d.Rng }

// FunctionDecl is `function name(params) body end` (or `function
// t.a.b(params)` — Target is the Identifier for a plain name and the whole
// Field chain, final segment included, otherwise), sugar over assigning a
// FunctionDef expression. IsLocal marks `local function
// name(...)`, which pre-declares name as a local before evaluating the
// function body so the body can refer to itself recursively.
type FunctionDecl struct {
	Target  LValue // nil only for `local function name(...)`; Name then used
	Name    string
	IsLocal bool
	Fn      *FunctionDef
	Rng     source.Range
}

func (f *FunctionDecl) Range() source.Range { return f.Rng }

// CallStmt wraps a Call or MethodCall used as a bare statement.
type CallStmt struct {
	Call Expr
	Rng  source.Range
}

func (c *CallStmt) Range() source.Range { return c.Rng }
