// Package parser implements a recursive-descent parser for MiniC. It
// consumes the token stream produced by internal/lexer and builds a typed
// internal/ast tree, synchronizing on errors so that multiple diagnostics
// can surface from a single malformed program.
package parser

import (
	"fmt"
	"strconv"

	"github.com/minicc/minicc/internal/ast"
	"github.com/minicc/minicc/internal/errors"
	"github.com/minicc/minicc/internal/lexer"
)

// Parser holds one token of lookahead (curTok) plus the next token
// (peekTok), matching the grammar's LL(1) shape.
type Parser struct {
	l      *lexer.Lexer
	source string

	curTok  lexer.Token
	peekTok lexer.Token

	errs  []*errors.CompilerError
	valid bool
}

// New creates a Parser over the given lexer. source is kept only for
// rendering diagnostics with a source-line snippet.
func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{l: l, source: source, valid: true}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

// Errors returns every syntax diagnostic accumulated during parsing.
func (p *Parser) Errors() []*errors.CompilerError { return p.errs }

// IsSyntaxValid reports whether parsing (and lexing) completed with no
// diagnostics.
func (p *Parser) IsSyntaxValid() bool { return p.valid && p.l.IsSyntaxValid() }

func (p *Parser) errSyntax(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errs = append(p.errs, errors.New(errors.Syntax, p.curTok.Pos, msg, p.source))
	p.valid = false
}

// sync token kinds: declaration/statement starters and block boundaries
// that are always safe to stop skipping at.
func (p *Parser) isSyncPoint() bool {
	switch p.curTok.Kind {
	case lexer.INT, lexer.VOID, lexer.IF, lexer.WHILE, lexer.RETURN,
		lexer.LBRACE, lexer.RBRACE, lexer.ENDFILE:
		return true
	default:
		return false
	}
}

// expectSkip is the "default" recovery mode (§4.2): report an error, then
// skip tokens until the expected kind or a synchronization point is
// found.
func (p *Parser) expectSkip(kind lexer.TokenType, msg string) bool {
	if p.curTok.Kind == kind {
		p.nextToken()
		return true
	}
	p.errSyntax("%s (got %s)", msg, p.curTok.Kind)
	for p.curTok.Kind != kind && !p.isSyncPoint() {
		p.nextToken()
	}
	if p.curTok.Kind == kind {
		p.nextToken()
		return true
	}
	return false
}

// expectIgnore is the "ignoreError" recovery mode (§4.2): used for closing
// brackets and semicolons so a single missing delimiter doesn't cascade
// into skipping the rest of the program. On mismatch it reports the error
// and behaves as if the token were present, consuming nothing.
func (p *Parser) expectIgnore(kind lexer.TokenType, msg string) {
	if p.curTok.Kind == kind {
		p.nextToken()
		return
	}
	p.errSyntax("%s (got %s)", msg, p.curTok.Kind)
}

func (p *Parser) expectIdent() (lexer.Token, bool) {
	if p.curTok.Kind == lexer.ID {
		tok := p.curTok
		p.nextToken()
		return tok, true
	}
	p.errSyntax("expected an identifier (got %s)", p.curTok.Kind)
	return p.curTok, false
}

// ParseProgram parses the whole token stream into a Program node: a
// sequence of declarations. An empty token stream yields a Program with
// no declarations and no error.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.curTok.Kind != lexer.ENDFILE {
		decl := p.parseDeclaration()
		if decl != nil {
			prog.Declarations = append(prog.Declarations, decl)
		}
	}
	return prog
}

// parseDeclaration disambiguates `int ID ...` / `void ID ...` into a
// variable or function declaration by looking one token past the name:
// `(` means a function, anything else means a variable (§4.2).
func (p *Parser) parseDeclaration() ast.Declaration {
	switch p.curTok.Kind {
	case lexer.VOID:
		tok := p.curTok
		p.nextToken()
		nameTok, ok := p.expectIdent()
		if !ok {
			return nil
		}
		return p.parseFunTail(tok, ast.TypeVoid, nameTok.Literal)

	case lexer.INT:
		tok := p.curTok
		p.nextToken()
		nameTok, ok := p.expectIdent()
		if !ok {
			return nil
		}
		if p.curTok.Kind == lexer.LPAREN {
			return p.parseFunTail(tok, ast.TypeInt, nameTok.Literal)
		}
		return p.finishVarTail(tok, nameTok.Literal)

	default:
		p.errSyntax("expected a declaration ('int' or 'void'), got %s", p.curTok.Kind)
		for !p.isSyncPoint() {
			p.nextToken()
		}
		if p.curTok.Kind == lexer.RBRACE {
			p.nextToken()
		}
		return nil
	}
}

// finishVarTail parses `var_tail → ';' | '[' NUM ']' ';'` assuming `int
// ID` has already been consumed.
func (p *Parser) finishVarTail(tok lexer.Token, name string) *ast.VarDeclaration {
	size := 0
	if p.curTok.Kind == lexer.LBRACK {
		p.nextToken()
		if p.curTok.Kind == lexer.NUM {
			n, err := strconv.Atoi(p.curTok.Literal)
			if err != nil {
				p.errSyntax("invalid array size literal %q", p.curTok.Literal)
			} else {
				size = n
			}
			p.nextToken()
		} else {
			p.errSyntax("expected array size (got %s)", p.curTok.Kind)
		}
		p.expectIgnore(lexer.RBRACK, "expected ']' after array size")
	}
	p.expectIgnore(lexer.SEMI, "expected ';' after declaration")
	return &ast.VarDeclaration{Token: tok, Name: name, ArraySize: size}
}

// parseLocalVarDecl parses a local declaration inside a compound
// statement: `'int' ID var_tail`.
func (p *Parser) parseLocalVarDecl() *ast.VarDeclaration {
	tok := p.curTok
	p.nextToken() // consume 'int'
	nameTok, ok := p.expectIdent()
	if !ok {
		return &ast.VarDeclaration{Token: tok, Name: "<error>"}
	}
	return p.finishVarTail(tok, nameTok.Literal)
}

// parseFunTail parses `'(' params ')' compound`.
func (p *Parser) parseFunTail(tok lexer.Token, ret ast.Type, name string) *ast.FunDeclaration {
	p.expectSkip(lexer.LPAREN, "expected '(' after function name")
	params := p.parseParams()
	p.expectIgnore(lexer.RPAREN, "expected ')' after parameter list")
	body := p.parseCompoundStmt()
	return &ast.FunDeclaration{Token: tok, ReturnType: ret, Name: name, Params: params, Body: body}
}

// parseParams parses `'void' | param (',' param)*`.
func (p *Parser) parseParams() []*ast.Param {
	if p.curTok.Kind == lexer.VOID {
		p.nextToken()
		return nil
	}
	if p.curTok.Kind == lexer.RPAREN {
		// Tolerate an explicit empty parameter list even though the
		// grammar requires 'void'; it is an unambiguous recovery.
		return nil
	}
	params := []*ast.Param{p.parseParam()}
	for p.curTok.Kind == lexer.COMMA {
		p.nextToken()
		params = append(params, p.parseParam())
	}
	return params
}

// parseParam parses `'int' ID ('[' ']')?`.
func (p *Parser) parseParam() *ast.Param {
	tok := p.curTok
	p.expectSkip(lexer.INT, "expected 'int' in parameter")
	nameTok, ok := p.expectIdent()
	name := nameTok.Literal
	if !ok {
		name = "<error>"
	}
	isArray := false
	if p.curTok.Kind == lexer.LBRACK {
		p.nextToken()
		p.expectIgnore(lexer.RBRACK, "expected ']' in array parameter")
		isArray = true
	}
	return &ast.Param{Token: tok, Name: name, IsArrayParam: isArray}
}

// parseCompoundStmt parses `'{' var_decl* statement* '}'`. Invariant 3
// (all declarations precede all statements) is structural here: the
// declaration loop only ever runs before the statement loop.
func (p *Parser) parseCompoundStmt() *ast.CompoundStmt {
	tok := p.curTok
	p.expectSkip(lexer.LBRACE, "expected '{' to start a block")

	var locals []*ast.VarDeclaration
	for p.curTok.Kind == lexer.INT {
		locals = append(locals, p.parseLocalVarDecl())
	}

	var stmts []ast.Statement
	for p.curTok.Kind != lexer.RBRACE && p.curTok.Kind != lexer.ENDFILE {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expectIgnore(lexer.RBRACE, "expected '}' to close a block")
	return &ast.CompoundStmt{Token: tok, Locals: locals, Statements: stmts}
}

// parseStatement parses `statement → expr_stmt | compound | selection |
// iteration | return_stmt`. A bare `;` is an empty statement and is
// dropped (not represented in the AST, per §4.2).
func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok.Kind {
	case lexer.SEMI:
		p.nextToken()
		return nil
	case lexer.LBRACE:
		return p.parseCompoundStmt()
	case lexer.IF:
		return p.parseSelection()
	case lexer.WHILE:
		return p.parseIteration()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.ID:
		return p.parseExpressionStmt()
	default:
		p.errSyntax("unexpected token %s in statement", p.curTok.Kind)
		p.nextToken()
		return nil
	}
}

func (p *Parser) parseExpressionStmt() ast.Statement {
	tok := p.curTok
	expr := p.parseExpression()
	p.expectIgnore(lexer.SEMI, "expected ';' after expression")
	return &ast.ExpressionStmt{Token: tok, Expr: expr}
}

// parseSelection parses `'if' '(' expression ')' statement ('else'
// statement)?`.
func (p *Parser) parseSelection() *ast.Selection {
	tok := p.curTok
	p.nextToken() // 'if'
	p.expectSkip(lexer.LPAREN, "expected '(' after 'if'")
	cond := p.parseExpression()
	p.expectIgnore(lexer.RPAREN, "expected ')' after if condition")
	then := p.parseStatement()
	var elseStmt ast.Statement
	if p.curTok.Kind == lexer.ELSE {
		p.nextToken()
		elseStmt = p.parseStatement()
	}
	return &ast.Selection{Token: tok, Condition: cond, Then: then, Else: elseStmt}
}

// parseIteration parses `'while' '(' expression ')' statement`.
func (p *Parser) parseIteration() *ast.Iteration {
	tok := p.curTok
	p.nextToken() // 'while'
	p.expectSkip(lexer.LPAREN, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.expectIgnore(lexer.RPAREN, "expected ')' after while condition")
	body := p.parseStatement()
	return &ast.Iteration{Token: tok, Condition: cond, Body: body}
}

// parseReturnStmt parses `'return' expression? ';'`.
func (p *Parser) parseReturnStmt() *ast.Return {
	tok := p.curTok
	p.nextToken() // 'return'
	var val ast.Expression
	if p.curTok.Kind != lexer.SEMI {
		val = p.parseExpression()
	}
	p.expectIgnore(lexer.SEMI, "expected ';' after return statement")
	return &ast.Return{Token: tok, Value: val}
}

// parseExpression parses `expression → ID id_expression |
// simple_expression`. Only the ID-led alternative can produce a Call or
// an Assignment; everything else falls through to a plain arithmetic
// expression.
func (p *Parser) parseExpression() ast.Expression {
	if p.curTok.Kind == lexer.ID {
		return p.parseIDExpression()
	}
	return p.parseSimpleExpression()
}

// parseIDExpression parses `id_expression → '(' args ')' | index?
// assign_or_simple`.
func (p *Parser) parseIDExpression() ast.Expression {
	idTok := p.curTok
	name := p.curTok.Literal
	p.nextToken() // consume ID

	if p.curTok.Kind == lexer.LPAREN {
		return p.parseCallTail(idTok, name)
	}

	var index ast.Expression
	if p.curTok.Kind == lexer.LBRACK {
		index = p.parseIndex()
	}
	id := &ast.Identifier{Token: idTok, Name: name, Index: index}

	if p.curTok.Kind == lexer.ASSIGN {
		assignTok := p.curTok
		p.nextToken()
		rhs := p.parseExpression()
		return &ast.Assignment{Token: assignTok, LHS: id, RHS: rhs}
	}

	// assign_or_simple → simple_expression_tail: `id` was already the
	// leading factor, so fold the remaining * / + - and an optional
	// trailing relop exactly as simple_expression would.
	return p.continueSimpleExpression(id)
}

func (p *Parser) parseIndex() ast.Expression {
	p.nextToken() // consume '['
	idx := p.parseExpression()
	p.expectIgnore(lexer.RBRACK, "expected ']' after index expression")
	return idx
}

func (p *Parser) parseCallTail(tok lexer.Token, name string) *ast.Call {
	p.nextToken() // consume '('
	args := p.parseArgs()
	p.expectIgnore(lexer.RPAREN, "expected ')' after call arguments")
	return &ast.Call{Token: tok, Callee: name, Args: args}
}

func (p *Parser) parseArgs() []ast.Expression {
	if p.curTok.Kind == lexer.RPAREN {
		return nil
	}
	args := []ast.Expression{p.parseExpression()}
	for p.curTok.Kind == lexer.COMMA {
		p.nextToken()
		args = append(args, p.parseExpression())
	}
	return args
}

// parseSimpleExpression parses `simple_expression → additive (relop
// additive)?` for expressions that do not start with an ID (NUM or a
// parenthesized expression).
func (p *Parser) parseSimpleExpression() ast.Expression {
	left := p.parseAdditive()
	return p.continueSimpleExpression(left)
}

// continueSimpleExpression folds any pending * / (term level), + -
// (additive level), and then at most one trailing relational operator,
// starting from an already-parsed leading factor/term. Relational
// operators are intentionally non-chaining: a second relop after this
// point is left for the caller to report as a syntax error (it will not
// match the expected ';'/')' that follows an expression).
func (p *Parser) continueSimpleExpression(first ast.Expression) ast.Expression {
	term := p.continueTerm(first)
	additive := p.continueAdditive(term)
	if p.isRelop(p.curTok.Kind) {
		op := p.curTok
		p.nextToken()
		right := p.parseAdditive()
		return &ast.BinaryOp{Token: op, Operator: op.Literal, Left: additive, Right: right}
	}
	return additive
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseTerm()
	return p.continueAdditive(left)
}

func (p *Parser) continueAdditive(first ast.Expression) ast.Expression {
	left := first
	for p.curTok.Kind == lexer.PLUS || p.curTok.Kind == lexer.MINUS {
		op := p.curTok
		p.nextToken()
		right := p.parseTerm()
		left = &ast.BinaryOp{Token: op, Operator: op.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	return p.continueTerm(left)
}

func (p *Parser) continueTerm(first ast.Expression) ast.Expression {
	left := first
	for p.curTok.Kind == lexer.TIMES || p.curTok.Kind == lexer.OVER {
		op := p.curTok
		p.nextToken()
		right := p.parseFactor()
		left = &ast.BinaryOp{Token: op, Operator: op.Literal, Left: left, Right: right}
	}
	return left
}

// parseFactor parses `factor → '(' expression ')' | NUM | ID ('(' args
// ')' | '[' expression ']')?`. This is the restricted, non-assigning ID
// form used for every ID that is not the lead token of a full
// `expression` (e.g. the right-hand operand of a `+`).
func (p *Parser) parseFactor() ast.Expression {
	switch p.curTok.Kind {
	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpression()
		p.expectIgnore(lexer.RPAREN, "expected ')' to close parenthesized expression")
		return expr

	case lexer.NUM:
		tok := p.curTok
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			p.errSyntax("invalid integer literal %q", tok.Literal)
		}
		p.nextToken()
		return &ast.NumberLiteral{Token: tok, Value: n}

	case lexer.ID:
		tok := p.curTok
		name := tok.Literal
		p.nextToken()
		if p.curTok.Kind == lexer.LPAREN {
			return p.parseCallTail(tok, name)
		}
		var index ast.Expression
		if p.curTok.Kind == lexer.LBRACK {
			index = p.parseIndex()
		}
		return &ast.Identifier{Token: tok, Name: name, Index: index}

	default:
		p.errSyntax("unexpected token %s in expression", p.curTok.Kind)
		tok := p.curTok
		if p.curTok.Kind != lexer.ENDFILE {
			p.nextToken()
		}
		return &ast.NumberLiteral{Token: tok, Value: 0}
	}
}

func (p *Parser) isRelop(k lexer.TokenType) bool {
	switch k {
	case lexer.LT, lexer.LE, lexer.GT, lexer.GE, lexer.EQ, lexer.NE:
		return true
	default:
		return false
	}
}
