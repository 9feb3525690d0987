// Package parser turns a internal/lexer token stream into the
// internal/ast syntax tree, following the teacher's recursive-descent
// Parser struct (internal/parser/parser.go: tokens/current/Errors,
// match/check/consume/advance helpers, precedence-climbing binary
// parsing) retargeted to Lua's statement and operator grammar.
package parser

import (
	"fmt"
	"strconv"

	"github.com/sp-uulm/MiniLua-sub001/internal/ast"
	"github.com/sp-uulm/MiniLua-sub001/internal/lexer"
	"github.com/sp-uulm/MiniLua-sub001/internal/source"
)

// SyntaxError is one parse failure with its location, collected rather
// than raised so a single bad program can report more than one problem.
type SyntaxError struct {
	Range   source.Range
	Message string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("%s: %s", e.Range, e.Message) }

// Result is the outcome of a parse: a statement list plus any errors
// gathered while recovering from bad input.
type Result struct {
	Block  []ast.Stmt
	Errors []*SyntaxError
}

// precedence is Lua 5.3's binary-operator precedence table (higher binds
// tighter); `^` and `..` are right-associative, handled separately below.
var precedence = map[lexer.Type]int{
	lexer.Or:      1,
	lexer.And:     2,
	lexer.Lt:      3,
	lexer.Gt:      3,
	lexer.LtEq:    3,
	lexer.GtEq:    3,
	lexer.NotEq:   3,
	lexer.EqEq:    3,
	lexer.Pipe:    4,
	lexer.Tilde:   5,
	lexer.Amp:     6,
	lexer.LtLt:    7,
	lexer.GtGt:    7,
	lexer.DDot:    9, // right-assoc
	lexer.Plus:    10,
	lexer.Minus:   10,
	lexer.Star:    11,
	lexer.Slash:   11,
	lexer.DSlash:  11,
	lexer.Percent: 11,
	lexer.Caret:   14, // right-assoc, binds tighter than unary
}

const unaryPrecedence = 12

type Parser struct {
	tokens  []lexer.Token
	current int
	Errors  []*SyntaxError
}

// Parse tokenizes+parses src in one call, for callers that don't need the
// lexer's directives/errors separately (internal/driver, cmd/minilua).
func Parse(src string) (*Result, []lexer.Directive) {
	toks, dirs, lexErrs := lexer.New(src).Scan()
	p := New(toks)
	for _, le := range lexErrs {
		p.Errors = append(p.Errors, &SyntaxError{Range: le.Range, Message: le.Message})
	}
	block := p.ParseChunk()
	return &Result{Block: block, Errors: p.Errors}, dirs
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseChunk parses a full source file: a statement list to EOF.
func (p *Parser) ParseChunk() []ast.Stmt {
	block := p.block()
	if !p.check(lexer.EOF) {
		p.errorf("unexpected trailing %q", p.peek().Lexeme)
	}
	return block
}

func blockEnd(t lexer.Type) bool {
	switch t {
	case lexer.EOF, lexer.End, lexer.Else, lexer.Elseif, lexer.Until:
		return true
	}
	return false
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !blockEnd(p.peek().Type) {
		if p.match(lexer.Semicolon) {
			continue
		}
		if p.check(lexer.Return) {
			stmts = append(stmts, p.returnStmt())
			break
		}
		stmts = append(stmts, p.statement())
	}
	return stmts
}

func (p *Parser) statement() ast.Stmt {
	switch p.peek().Type {
	case lexer.Local:
		return p.localDecl()
	case lexer.If:
		return p.ifStmt()
	case lexer.While:
		return p.whileStmt()
	case lexer.Repeat:
		return p.repeatStmt()
	case lexer.For:
		return p.forStmt()
	case lexer.Do:
		return p.doBlock()
	case lexer.Function:
		return p.functionDecl()
	case lexer.Break:
		tok := p.advance()
		return &ast.Break{Rng: tok.Range}
	case lexer.Goto:
		tok := p.advance()
		name := p.consume(lexer.Ident, "expected label name after 'goto'")
		return &ast.Goto{Label: name.Lexeme, Rng: span(tok.Range, name.Range)}
	case lexer.DColon:
		start := p.advance()
		name := p.consume(lexer.Ident, "expected label name")
		end := p.consume(lexer.DColon, "expected '::' to close label")
		return &ast.Label{Name: name.Lexeme, Rng: span(start.Range, end.Range)}
	default:
		return p.exprStatement()
	}
}

func (p *Parser) localDecl() ast.Stmt {
	start := p.advance() // 'local'
	if p.check(lexer.Function) {
		return p.localFunctionDecl(start)
	}
	names := []string{p.consume(lexer.Ident, "expected variable name").Lexeme}
	for p.match(lexer.Comma) {
		names = append(names, p.consume(lexer.Ident, "expected variable name").Lexeme)
	}
	var values []ast.Expr
	rng := start.Range
	if p.match(lexer.Assign) {
		values = p.exprList()
		if len(values) > 0 {
			rng = span(start.Range, values[len(values)-1].Range())
		}
	}
	return &ast.LocalDecl{Names: names, Values: values, Rng: rng}
}

// localFunctionDecl parses `local function name(...) body end`: sugar for
// declaring name as a local before the function body exists, so the body
// can call name recursively (internal/eval's execFunctionDecl pre-declares
// the binding before building the closure when IsLocal is set).
func (p *Parser) localFunctionDecl(start lexer.Token) ast.Stmt {
	p.advance() // 'function'
	nameTok := p.consume(lexer.Ident, "expected function name")
	fn := p.functionBody(start.Range, false)
	return &ast.FunctionDecl{Name: nameTok.Lexeme, IsLocal: true, Fn: fn, Rng: span(start.Range, fn.Rng)}
}

func (p *Parser) ifStmt() ast.Stmt {
	start := p.advance() // 'if'
	node := &ast.If{Rng: start.Range}
	cond := p.expression()
	p.consume(lexer.Then, "expected 'then'")
	body := p.block()
	node.Clauses = append(node.Clauses, ast.IfClause{Cond: cond, Body: body})
	for p.check(lexer.Elseif) {
		p.advance()
		c := p.expression()
		p.consume(lexer.Then, "expected 'then'")
		b := p.block()
		node.Clauses = append(node.Clauses, ast.IfClause{Cond: c, Body: b})
	}
	if p.match(lexer.Else) {
		node.Else = p.block()
	}
	end := p.consume(lexer.End, "expected 'end' to close 'if'")
	node.Rng = span(start.Range, end.Range)
	return node
}

func (p *Parser) whileStmt() ast.Stmt {
	start := p.advance()
	cond := p.expression()
	p.consume(lexer.Do, "expected 'do'")
	body := p.block()
	end := p.consume(lexer.End, "expected 'end' to close 'while'")
	return &ast.While{Cond: cond, Body: body, Rng: span(start.Range, end.Range)}
}

func (p *Parser) repeatStmt() ast.Stmt {
	start := p.advance()
	body := p.block()
	p.consume(lexer.Until, "expected 'until'")
	cond := p.expression()
	return &ast.Repeat{Body: body, Cond: cond, Rng: span(start.Range, cond.Range())}
}

func (p *Parser) forStmt() ast.Stmt {
	start := p.advance()
	first := p.consume(lexer.Ident, "expected name after 'for'")
	if p.check(lexer.Assign) {
		p.advance()
		from := p.expression()
		p.consume(lexer.Comma, "expected ',' after numeric for's start value")
		to := p.expression()
		var step ast.Expr
		if p.match(lexer.Comma) {
			step = p.expression()
		}
		p.consume(lexer.Do, "expected 'do'")
		body := p.block()
		end := p.consume(lexer.End, "expected 'end' to close 'for'")
		return &ast.NumericFor{Name: first.Lexeme, Start: from, Stop: to, Step: step, Body: body, Rng: span(start.Range, end.Range)}
	}
	names := []string{first.Lexeme}
	for p.match(lexer.Comma) {
		names = append(names, p.consume(lexer.Ident, "expected name").Lexeme)
	}
	p.consume(lexer.In, "expected '=' or 'in' after for variable(s)")
	exprs := p.exprList()
	p.consume(lexer.Do, "expected 'do'")
	body := p.block()
	end := p.consume(lexer.End, "expected 'end' to close 'for'")
	return &ast.GenericFor{Names: names, Exprs: exprs, Body: body, Rng: span(start.Range, end.Range)}
}

func (p *Parser) doBlock() ast.Stmt {
	start := p.advance()
	body := p.block()
	end := p.consume(lexer.End, "expected 'end' to close 'do'")
	return &ast.DoBlock{Body: body, Rng: span(start.Range, end.Range)}
}

func (p *Parser) functionDecl() ast.Stmt {
	start := p.advance() // 'function'
	nameTok := p.consume(lexer.Ident, "expected function name")
	var target ast.LValue = &ast.Identifier{Name: nameTok.Lexeme, Rng: nameTok.Range}
	name := nameTok.Lexeme
	isMethod := false
	for p.check(lexer.Dot) || p.check(lexer.Colon) {
		method := p.advance().Type == lexer.Colon
		field := p.consume(lexer.Ident, "expected name after '.' or ':'")
		target = &ast.Field{Object: target, Name: field.Lexeme, Rng: span(target.Range(), field.Range)}
		name = field.Lexeme
		if method {
			isMethod = true
			break
		}
	}
	fn := p.functionBody(start.Range, isMethod)
	return &ast.FunctionDecl{Target: target, Name: name, Fn: fn, Rng: span(start.Range, fn.Rng)}
}

// functionBody parses the shared `(params) body end` tail of both function
// declarations and anonymous `function(...) ... end` expressions. A method
// declaration (`function t:m(...)`) gets an implicit leading `self` param.
func (p *Parser) functionBody(start source.Range, isMethod bool) *ast.FunctionDef {
	p.consume(lexer.LParen, "expected '(' after function name")
	var params []string
	if isMethod {
		params = append(params, "self")
	}
	vararg := false
	if !p.check(lexer.RParen) {
		for {
			if p.check(lexer.Ellipsis) {
				p.advance()
				vararg = true
				break
			}
			params = append(params, p.consume(lexer.Ident, "expected parameter name").Lexeme)
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RParen, "expected ')' after parameters")
	body := p.block()
	end := p.consume(lexer.End, "expected 'end' to close function body")
	return &ast.FunctionDef{Params: params, Vararg: vararg, Body: body, Rng: span(start, end.Range)}
}

func (p *Parser) returnStmt() ast.Stmt {
	start := p.advance()
	var values []ast.Expr
	rng := start.Range
	if !blockEnd(p.peek().Type) && !p.check(lexer.Semicolon) {
		values = p.exprList()
		if len(values) > 0 {
			rng = span(start.Range, values[len(values)-1].Range())
		}
	}
	p.match(lexer.Semicolon)
	return &ast.Return{Values: values, Rng: rng}
}

// exprStatement parses either an assignment (`lhs, lhs = rhs, rhs`) or a
// bare call used as a statement — the only two forms Lua allows here.
func (p *Parser) exprStatement() ast.Stmt {
	first := p.suffixedExpr()
	if p.check(lexer.Assign) || p.check(lexer.Comma) {
		targets := []ast.LValue{first}
		for p.match(lexer.Comma) {
			targets = append(targets, p.suffixedExpr())
		}
		p.consume(lexer.Assign, "expected '=' in assignment")
		values := p.exprList()
		return &ast.Assign{Targets: targets, Values: values, Rng: span(first.Range(), values[len(values)-1].Range())}
	}
	switch first.(type) {
	case *ast.Call, *ast.MethodCall:
		return &ast.CallStmt{Call: first, Rng: first.Range()}
	}
	p.errorf("syntax error: expression used as a statement")
	return &ast.CallStmt{Call: first, Rng: first.Range()}
}

func (p *Parser) exprList() []ast.Expr {
	list := []ast.Expr{p.expression()}
	for p.match(lexer.Comma) {
		list = append(list, p.expression())
	}
	return list
}

// --- expressions, precedence climbing ---

func (p *Parser) expression() ast.Expr { return p.binary(0) }

func (p *Parser) binary(minPrec int) ast.Expr {
	left := p.unary()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		nextMin := prec + 1
		if tok.Type == lexer.DDot || tok.Type == lexer.Caret {
			nextMin = prec // right-associative
		}
		right := p.binary(nextMin)
		left = &ast.BinaryOp{Op: tok.Lexeme, Lhs: left, Rhs: right, Rng: span(left.Range(), right.Range())}
	}
	return left
}

func (p *Parser) unary() ast.Expr {
	switch p.peek().Type {
	case lexer.Not, lexer.Minus, lexer.Hash, lexer.Tilde:
		tok := p.advance()
		operand := p.binary(unaryPrecedence)
		return &ast.UnaryOp{Op: tok.Lexeme, Operand: operand, Rng: span(tok.Range, operand.Range())}
	}
	return p.suffixedExpr()
}

// suffixedExpr parses a primary expression followed by any chain of
// `.name`, `[expr]`, `:name(args)`, `(args)` suffixes.
func (p *Parser) suffixedExpr() ast.Expr {
	e := p.primary()
	for {
		switch p.peek().Type {
		case lexer.Dot:
			p.advance()
			name := p.consume(lexer.Ident, "expected field name after '.'")
			e = &ast.Field{Object: e, Name: name.Lexeme, Rng: span(e.Range(), name.Range)}
		case lexer.LBracket:
			p.advance()
			key := p.expression()
			end := p.consume(lexer.RBracket, "expected ']' to close index")
			e = &ast.Index{Object: e, Key: key, Rng: span(e.Range(), end.Range)}
		case lexer.Colon:
			p.advance()
			name := p.consume(lexer.Ident, "expected method name after ':'")
			args, rng := p.callArgs()
			e = &ast.MethodCall{Object: e, Method: name.Lexeme, Args: args, Rng: span(e.Range(), rng)}
		case lexer.LParen, lexer.String, lexer.LBrace:
			args, rng := p.callArgs()
			e = &ast.Call{Callee: e, Args: args, Rng: span(e.Range(), rng)}
		default:
			return e
		}
	}
}

// callArgs parses a call's argument list: `(args)`, a single string
// literal, or a single table constructor — all three are valid Lua call
// syntax.
func (p *Parser) callArgs() ([]ast.Expr, source.Range) {
	switch p.peek().Type {
	case lexer.String:
		tok := p.advance()
		return []ast.Expr{&ast.Literal{Kind: ast.LitString, Str: tok.Lexeme, Rng: tok.Range}}, tok.Range
	case lexer.LBrace:
		tc := p.tableConstructor()
		return []ast.Expr{tc}, tc.Range()
	}
	start := p.consume(lexer.LParen, "expected '('")
	var args []ast.Expr
	if !p.check(lexer.RParen) {
		args = p.exprList()
	}
	end := p.consume(lexer.RParen, "expected ')' to close call")
	return args, span(start.Range, end.Range)
}

func (p *Parser) primary() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.Nil:
		p.advance()
		return &ast.Literal{Kind: ast.LitNil, Rng: tok.Range}
	case lexer.True:
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Bool: true, Rng: tok.Range}
	case lexer.False:
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Bool: false, Rng: tok.Range}
	case lexer.Number:
		p.advance()
		return p.numberLiteral(tok)
	case lexer.String:
		p.advance()
		return &ast.Literal{Kind: ast.LitString, Str: tok.Lexeme, Rng: tok.Range}
	case lexer.Ellipsis:
		p.advance()
		return &ast.Vararg{Rng: tok.Range}
	case lexer.Ident:
		p.advance()
		return &ast.Identifier{Name: tok.Lexeme, Rng: tok.Range}
	case lexer.Function:
		p.advance()
		return p.functionBody(tok.Range, false)
	case lexer.LBrace:
		return p.tableConstructor()
	case lexer.LParen:
		p.advance()
		inner := p.expression()
		p.consume(lexer.RParen, "expected ')' to close parenthesized expression")
		return inner
	}
	p.errorf("unexpected token %q", tok.Lexeme)
	p.advance()
	return &ast.Literal{Kind: ast.LitNil, Rng: tok.Range}
}

func (p *Parser) numberLiteral(tok lexer.Token) *ast.Literal {
	if tok.IsInt {
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			f, _ := strconv.ParseFloat(tok.Lexeme, 64)
			return &ast.Literal{Kind: ast.LitNumber, IsInt: false, Float: f, Rng: tok.Range}
		}
		return &ast.Literal{Kind: ast.LitNumber, IsInt: true, Int: n, Rng: tok.Range}
	}
	f, _ := strconv.ParseFloat(tok.Lexeme, 64)
	return &ast.Literal{Kind: ast.LitNumber, IsInt: false, Float: f, Rng: tok.Range}
}

func (p *Parser) tableConstructor() ast.Expr {
	start := p.consume(lexer.LBrace, "expected '{'")
	var fields []ast.TableField
	for !p.check(lexer.RBrace) {
		switch {
		case p.check(lexer.LBracket):
			p.advance()
			key := p.expression()
			p.consume(lexer.RBracket, "expected ']' in table field")
			p.consume(lexer.Assign, "expected '=' after table key")
			val := p.expression()
			fields = append(fields, ast.TableField{Key: key, Value: val})
		case p.check(lexer.Ident) && p.peekAt(1).Type == lexer.Assign:
			name := p.advance()
			p.advance() // '='
			val := p.expression()
			key := &ast.Literal{Kind: ast.LitString, Str: name.Lexeme, Rng: name.Range}
			fields = append(fields, ast.TableField{Key: key, Value: val})
		default:
			fields = append(fields, ast.TableField{Value: p.expression()})
		}
		if !p.match(lexer.Comma) && !p.match(lexer.Semicolon) {
			break
		}
	}
	end := p.consume(lexer.RBrace, "expected '}' to close table constructor")
	return &ast.TableConstructor{Fields: fields, Rng: span(start.Range, end.Range)}
}

// --- token-stream helpers ---

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }

func (p *Parser) peekAt(off int) lexer.Token {
	i := p.current + off
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.current]
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return tok
}

func (p *Parser) check(t lexer.Type) bool { return p.peek().Type == t }

func (p *Parser) match(t lexer.Type) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t lexer.Type, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errorf("%s (got %q)", msg, p.peek().Lexeme)
	return p.peek()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.Errors = append(p.Errors, &SyntaxError{Range: p.peek().Range, Message: fmt.Sprintf(format, args...)})
}

func span(a, b source.Range) source.Range {
	return source.Range{Start: a.Start, End: b.End}
}
