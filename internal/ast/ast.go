// Package ast defines the Abstract Syntax Tree node types produced by the
// MiniC parser. Each syntactic construct has its own struct (a tagged
// variant) rather than a single generic node carrying an attribute bag.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/minicc/minicc/internal/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level (or nested, for FunDeclaration locals)
// declaration: a variable or a function.
type Declaration interface {
	Node
	declarationNode()
}

// Type is the closed set of MiniC value types.
type Type int

const (
	TypeVoid Type = iota
	TypeInt
	TypeArray
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "int"
	case TypeArray:
		return "int[]"
	default:
		return "unknown"
	}
}

// Program is the root node: a sequence of top-level declarations.
type Program struct {
	Declarations []Declaration
}

func (p *Program) TokenLiteral() string {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Position {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, d := range p.Declarations {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}

// VarDeclaration declares a scalar (ArraySize == 0) or array global/local.
type VarDeclaration struct {
	Token     lexer.Token
	Name      string
	ArraySize int // 0 means scalar
}

func (v *VarDeclaration) declarationNode()        {}
func (v *VarDeclaration) TokenLiteral() string    { return v.Token.Literal }
func (v *VarDeclaration) Pos() lexer.Position     { return v.Token.Pos }
func (v *VarDeclaration) String() string {
	if v.ArraySize > 0 {
		return fmt.Sprintf("int %s[%d];", v.Name, v.ArraySize)
	}
	return fmt.Sprintf("int %s;", v.Name)
}

// Param is one formal parameter of a FunDeclaration.
type Param struct {
	Token        lexer.Token
	Name         string
	IsArrayParam bool
}

func (p *Param) TokenLiteral() string { return p.Token.Literal }
func (p *Param) Pos() lexer.Position  { return p.Token.Pos }
func (p *Param) String() string {
	if p.IsArrayParam {
		return fmt.Sprintf("int %s[]", p.Name)
	}
	return fmt.Sprintf("int %s", p.Name)
}

// FunDeclaration declares a function; its last child is always its body.
type FunDeclaration struct {
	Token      lexer.Token
	ReturnType Type // TypeInt or TypeVoid
	Name       string
	Params     []*Param
	Body       *CompoundStmt
}

func (f *FunDeclaration) declarationNode()     {}
func (f *FunDeclaration) TokenLiteral() string { return f.Token.Literal }
func (f *FunDeclaration) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunDeclaration) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	params := strings.Join(parts, ", ")
	if len(f.Params) == 0 {
		params = "void"
	}
	return fmt.Sprintf("%s %s(%s) %s", f.ReturnType, f.Name, params, f.Body.String())
}

// CompoundStmt is a `{ declarations; statements }` block. Invariant: all
// VarDeclaration children precede all statement children.
type CompoundStmt struct {
	Token      lexer.Token // '{'
	Locals     []*VarDeclaration
	Statements []Statement
}

func (c *CompoundStmt) statementNode()      {}
func (c *CompoundStmt) TokenLiteral() string { return c.Token.Literal }
func (c *CompoundStmt) Pos() lexer.Position  { return c.Token.Pos }
func (c *CompoundStmt) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, d := range c.Locals {
		out.WriteString("  " + d.String() + "\n")
	}
	for _, s := range c.Statements {
		out.WriteString("  " + s.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// Selection is `if (cond) then [else]`.
type Selection struct {
	Token     lexer.Token // 'if'
	Condition Expression
	Then      Statement
	Else      Statement // nil when absent
}

func (s *Selection) statementNode()      {}
func (s *Selection) TokenLiteral() string { return s.Token.Literal }
func (s *Selection) Pos() lexer.Position  { return s.Token.Pos }
func (s *Selection) String() string {
	if s.Else != nil {
		return fmt.Sprintf("if (%s) %s else %s", s.Condition.String(), s.Then.String(), s.Else.String())
	}
	return fmt.Sprintf("if (%s) %s", s.Condition.String(), s.Then.String())
}

// Iteration is `while (cond) body`.
type Iteration struct {
	Token     lexer.Token // 'while'
	Condition Expression
	Body      Statement
}

func (i *Iteration) statementNode()      {}
func (i *Iteration) TokenLiteral() string { return i.Token.Literal }
func (i *Iteration) Pos() lexer.Position  { return i.Token.Pos }
func (i *Iteration) String() string {
	return fmt.Sprintf("while (%s) %s", i.Condition.String(), i.Body.String())
}

// Return is `return [expr];`.
type Return struct {
	Token lexer.Token
	Value Expression // nil for a bare `return;`
}

func (r *Return) statementNode()      {}
func (r *Return) TokenLiteral() string { return r.Token.Literal }
func (r *Return) Pos() lexer.Position  { return r.Token.Pos }
func (r *Return) String() string {
	if r.Value != nil {
		return fmt.Sprintf("return %s;", r.Value.String())
	}
	return "return;"
}

// ExpressionStmt wraps an expression used as a statement. The parser
// accepts any expression that starts with an identifier here; in practice
// an assignment or a call.
type ExpressionStmt struct {
	Token lexer.Token
	Expr  Expression
}

func (e *ExpressionStmt) statementNode()      {}
func (e *ExpressionStmt) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStmt) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExpressionStmt) String() string       { return e.Expr.String() + ";" }

// Assignment is `lhs = rhs`, where lhs is an Identifier (possibly
// indexed).
type Assignment struct {
	Token lexer.Token // '='
	LHS   *Identifier
	RHS   Expression
}

func (a *Assignment) expressionNode()      {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Pos() lexer.Position  { return a.Token.Pos }
func (a *Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.LHS.String(), a.RHS.String())
}

// Identifier references a declared scalar, array, or function. Index is
// non-nil exactly when the identifier is followed by `[expr]`.
type Identifier struct {
	Token lexer.Token
	Name  string
	Index Expression // non-nil iff this ID is indexed
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) IsIndexed() bool      { return i.Index != nil }
func (i *Identifier) String() string {
	if i.Index != nil {
		return fmt.Sprintf("%s[%s]", i.Name, i.Index.String())
	}
	return i.Name
}

// Call is a function call `callee(args...)`.
type Call struct {
	Token  lexer.Token // the callee identifier
	Callee string
	Args   []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) Pos() lexer.Position  { return c.Token.Pos }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// BinaryOp is a binary arithmetic or relational expression; the parser
// builds these left-leaning by iterative folding, so left-associativity
// is structural rather than enforced at evaluation time.
type BinaryOp struct {
	Token    lexer.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryOp) expressionNode()      {}
func (b *BinaryOp) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryOp) Pos() lexer.Position  { return b.Token.Pos }
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// NumberLiteral is a non-negative decimal integer literal.
type NumberLiteral struct {
	Token lexer.Token
	Value int
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Token.Literal }
