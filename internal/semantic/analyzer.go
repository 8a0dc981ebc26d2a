// Package semantic implements the MiniC type checker: a single
// depth-first walk over the AST that fills and consults a symbol table
// (internal/symtab) and validates every expression's type.
package semantic

import (
	"fmt"

	"github.com/minicc/minicc/internal/ast"
	"github.com/minicc/minicc/internal/errors"
	"github.com/minicc/minicc/internal/symtab"
)

// Analyzer performs a single DFS over the AST, threading a symtab.Table
// and the currently-enclosing function (so Return can be validated
// against its declared return type).
type Analyzer struct {
	tab    *symtab.Table
	source string
	errs   []*errors.CompilerError
	valid  bool

	currentFunc *symtab.Symbol
}

// NewAnalyzer creates an Analyzer with input() and output(int) injected
// at global scope, as if built in (spec §4.4).
func NewAnalyzer() *Analyzer {
	tab := symtab.New()
	tab.Define(&symtab.Symbol{
		Label: "input", IsFunction: true, IsGlobal: true,
		ReturnType: ast.TypeInt, ParamTypes: nil,
	})
	tab.Define(&symtab.Symbol{
		Label: "output", IsFunction: true, IsGlobal: true,
		ReturnType: ast.TypeVoid, ParamTypes: []ast.Type{ast.TypeInt},
	})
	return &Analyzer{tab: tab, valid: true}
}

// SetSource attaches the original source text so diagnostics can render a
// source-line snippet.
func (a *Analyzer) SetSource(source string) { a.source = source }

// Errors returns every semantic diagnostic accumulated during Analyze.
func (a *Analyzer) Errors() []*errors.CompilerError { return a.errs }

// IsTypingValid reports whether Analyze completed with no diagnostics.
func (a *Analyzer) IsTypingValid() bool { return a.valid }

// SymbolTable exposes the table built while analyzing, e.g. for tooling
// that wants to inspect resolved declarations after a successful check.
func (a *Analyzer) SymbolTable() *symtab.Table { return a.tab }

func (a *Analyzer) errSemantic(pos ast.Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	a.errs = append(a.errs, errors.New(errors.Semantic, pos.Pos(), msg, a.source))
	a.valid = false
}

// Analyze walks prog, filling the global scope and then each function's
// scope in turn. It always completes the traversal (errors accumulate)
// so that multiple diagnostics can be surfaced in one pass; callers check
// IsTypingValid() rather than relying on a returned error.
func (a *Analyzer) Analyze(prog *ast.Program) {
	a.checkDuplicateFunctions(prog)
	symtab.FillProgram(a.tab, prog)

	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.FunDeclaration); ok {
			a.analyzeFunction(fn)
		}
	}
}

// checkDuplicateFunctions rejects a second top-level function with the
// same name (spec §9 Open Question, resolved here: duplicates are a
// semantic error rather than silently shadowing).
func (a *Analyzer) checkDuplicateFunctions(prog *ast.Program) {
	seen := make(map[string]*ast.FunDeclaration)
	for _, decl := range prog.Declarations {
		fn, ok := decl.(*ast.FunDeclaration)
		if !ok {
			continue
		}
		if prior, exists := seen[fn.Name]; exists {
			a.errSemantic(fn, "function %q already declared at line %d", fn.Name, prior.Pos().Line)
			continue
		}
		seen[fn.Name] = fn
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.FunDeclaration) {
	prevFunc := a.currentFunc
	sym, _ := a.tab.Lookup(fn.Name)
	a.currentFunc = sym

	symtab.FillFunction(a.tab, fn)
	for _, stmt := range fn.Body.Statements {
		a.analyzeStatement(stmt)
	}
	a.tab.Pop()

	a.currentFunc = prevFunc
}

func (a *Analyzer) analyzeCompound(c *ast.CompoundStmt) {
	a.tab.Push()
	for _, local := range c.Locals {
		if _, dup := a.tab.LookupLocal(local.Name); dup {
			a.errSemantic(local, "variable %q already declared in this scope", local.Name)
			continue
		}
		a.tab.Define(&symtab.Symbol{
			Label: local.Name,
			Type:  varType(local.ArraySize),
		})
	}
	for _, stmt := range c.Statements {
		a.analyzeStatement(stmt)
	}
	a.tab.Pop()
}

func varType(arraySize int) ast.Type {
	if arraySize > 0 {
		return ast.TypeArray
	}
	return ast.TypeInt
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.CompoundStmt:
		a.analyzeCompound(s)
	case *ast.Selection:
		a.expectInt(a.analyzeExpr(s.Condition), s.Condition, "if condition")
		a.analyzeStatement(s.Then)
		if s.Else != nil {
			a.analyzeStatement(s.Else)
		}
	case *ast.Iteration:
		a.expectInt(a.analyzeExpr(s.Condition), s.Condition, "while condition")
		a.analyzeStatement(s.Body)
	case *ast.Return:
		a.analyzeReturn(s)
	case *ast.ExpressionStmt:
		a.analyzeExpr(s.Expr)
	case nil:
		// dropped empty statement
	default:
		a.errSemantic(stmt, "internal error: unhandled statement %T", stmt)
	}
}

func (a *Analyzer) analyzeReturn(ret *ast.Return) {
	want := ast.TypeVoid
	if a.currentFunc != nil {
		want = a.currentFunc.ReturnType
	}
	got := ast.TypeVoid
	if ret.Value != nil {
		got = a.analyzeExpr(ret.Value)
	}
	if got != want {
		name := "<unknown>"
		if a.currentFunc != nil {
			name = a.currentFunc.Label
		}
		a.errSemantic(ret, "return type %s does not match declared return type %s of function %q", got, want, name)
	}
}

// analyzeExpr type-checks an expression and returns its type. On a
// semantic error it records a diagnostic and returns a best-effort type
// (usually Int) so traversal can continue.
func (a *Analyzer) analyzeExpr(expr ast.Expression) ast.Type {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return ast.TypeInt

	case *ast.Identifier:
		return a.analyzeIdentifier(e)

	case *ast.Call:
		return a.analyzeCall(e)

	case *ast.BinaryOp:
		left := a.analyzeExpr(e.Left)
		right := a.analyzeExpr(e.Right)
		a.expectInt(left, e.Left, "left operand of "+e.Operator)
		a.expectInt(right, e.Right, "right operand of "+e.Operator)
		return ast.TypeInt

	case *ast.Assignment:
		return a.analyzeAssignment(e)

	default:
		a.errSemantic(expr, "internal error: unhandled expression %T", expr)
		return ast.TypeInt
	}
}

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier) ast.Type {
	sym, ok := a.tab.Lookup(id.Name)
	if !ok {
		a.errSemantic(id, "undeclared identifier %q", id.Name)
		return ast.TypeInt
	}
	if sym.IsFunction {
		a.errSemantic(id, "%q is a function, not a variable", id.Name)
		return ast.TypeInt
	}
	if id.Index != nil {
		if sym.Type != ast.TypeArray {
			a.errSemantic(id, "cannot index non-array %q", id.Name)
		}
		idxType := a.analyzeExpr(id.Index)
		a.expectInt(idxType, id.Index, "array index")
		return ast.TypeInt
	}
	return sym.Type
}

func (a *Analyzer) analyzeCall(call *ast.Call) ast.Type {
	sym, ok := a.tab.Lookup(call.Callee)
	if !ok {
		a.errSemantic(call, "call to undeclared function %q", call.Callee)
		for _, arg := range call.Args {
			a.analyzeExpr(arg)
		}
		return ast.TypeInt
	}
	if !sym.IsFunction {
		a.errSemantic(call, "%q is not a function", call.Callee)
		return ast.TypeInt
	}
	if len(call.Args) != len(sym.ParamTypes) {
		a.errSemantic(call, "function %q expects %d argument(s), got %d", call.Callee, len(sym.ParamTypes), len(call.Args))
	}
	n := len(call.Args)
	if len(sym.ParamTypes) < n {
		n = len(sym.ParamTypes)
	}
	for i := 0; i < n; i++ {
		argType := a.analyzeExpr(call.Args[i])
		if argType != sym.ParamTypes[i] {
			a.errSemantic(call.Args[i], "argument %d to %q has type %s, expected %s", i+1, call.Callee, argType, sym.ParamTypes[i])
		}
	}
	for i := n; i < len(call.Args); i++ {
		a.analyzeExpr(call.Args[i])
	}
	return sym.ReturnType
}

func (a *Analyzer) analyzeAssignment(assign *ast.Assignment) ast.Type {
	lhsType := a.analyzeIdentifier(assign.LHS)
	rhsType := a.analyzeExpr(assign.RHS)
	if lhsType != rhsType {
		a.errSemantic(assign, "cannot assign %s to %s", rhsType, lhsType)
	}
	return lhsType
}

func (a *Analyzer) expectInt(got ast.Type, node ast.Node, what string) {
	if got != ast.TypeInt {
		a.errSemantic(node, "%s must have type int, got %s", what, got)
	}
}
