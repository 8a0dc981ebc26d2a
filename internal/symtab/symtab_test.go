package symtab

import (
	"testing"

	"github.com/minicc/minicc/internal/ast"
)

func TestDefineAndLookupInnermostFirst(t *testing.T) {
	tab := New()
	tab.Define(&Symbol{Label: "x", Type: ast.TypeInt, IsGlobal: true})

	tab.Push()
	tab.Define(&Symbol{Label: "x", Type: ast.TypeArray})

	sym, ok := tab.Lookup("x")
	if !ok || sym.Type != ast.TypeArray {
		t.Fatalf("expected innermost 'x' (Array) to shadow global, got %+v", sym)
	}

	tab.Pop()
	sym, ok = tab.Lookup("x")
	if !ok || sym.Type != ast.TypeInt {
		t.Fatalf("expected global 'x' (Int) after pop, got %+v", sym)
	}
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	tab := New()
	if _, ok := tab.Lookup("nope"); ok {
		t.Fatalf("expected lookup of undefined symbol to fail")
	}
}

func TestPositionsAssignedInDeclarationOrder(t *testing.T) {
	tab := New()
	tab.Define(&Symbol{Label: "a", Type: ast.TypeInt})
	tab.Define(&Symbol{Label: "b", Type: ast.TypeInt})
	a, _ := tab.Lookup("a")
	b, _ := tab.Lookup("b")
	if a.Pos != 1 || b.Pos != 2 {
		t.Fatalf("expected positions 1,2 got %d,%d", a.Pos, b.Pos)
	}
}

func TestScopeOffsetZeroInInnermostScope(t *testing.T) {
	tab := New()
	tab.Push() // function scope
	tab.Define(&Symbol{Label: "n", Type: ast.TypeInt})
	if off := tab.ScopeOffset("n"); off != 0 {
		t.Fatalf("expected 0 for innermost-scope symbol, got %d", off)
	}
}

func TestScopeOffsetAccumulatesEnclosingScopes(t *testing.T) {
	tab := New()
	tab.Define(&Symbol{Label: "g", Type: ast.TypeInt, IsGlobal: true}) // global scope: 1 symbol

	tab.Push() // function scope: 2 symbols (a, b)
	tab.Define(&Symbol{Label: "a", Type: ast.TypeInt})
	tab.Define(&Symbol{Label: "b", Type: ast.TypeInt})

	tab.Push() // block scope: 1 symbol (c)
	tab.Define(&Symbol{Label: "c", Type: ast.TypeInt})

	// "a" is bound one scope out from "c": (len(block scope)+2)*4 = (1+2)*4 = 12
	if off := tab.ScopeOffset("a"); off != 12 {
		t.Fatalf("expected scope offset 12 for 'a', got %d", off)
	}
	// "g" is bound two scopes out: block (1+2)*4=12, function (2+2)*4=16 -> 28
	if off := tab.ScopeOffset("g"); off != 28 {
		t.Fatalf("expected scope offset 28 for 'g', got %d", off)
	}
}

func TestControlStatementOffsetStopsBeforeOutermostTwoScopes(t *testing.T) {
	tab := New()
	tab.Define(&Symbol{Label: "g", Type: ast.TypeInt, IsGlobal: true}) // global

	tab.Push() // function scope
	tab.Define(&Symbol{Label: "p", Type: ast.TypeInt})

	tab.Push() // if-block scope: 2 locals
	tab.Define(&Symbol{Label: "x", Type: ast.TypeInt})
	tab.Define(&Symbol{Label: "y", Type: ast.TypeInt})

	// Stops before global(idx0) and function(idx1); only the if-block
	// (idx2, len 2) counts: (2+2)*4 = 16
	if off := tab.ControlStatementOffset(); off != 16 {
		t.Fatalf("expected 16 for the if-block alone, got %d", off)
	}

	tab.Push() // nested while-block scope: 1 local
	tab.Define(&Symbol{Label: "z", Type: ast.TypeInt})

	// if-block (idx2, len 2) plus while-block (idx3, len 1):
	// (2+2)*4 + (1+2)*4 = 28
	if off := tab.ControlStatementOffset(); off != 28 {
		t.Fatalf("expected 28, got %d", off)
	}
}

func TestFillProgramOrdersVarsBeforeFunctionsAreRetrievable(t *testing.T) {
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.VarDeclaration{Name: "g", ArraySize: 0},
			&ast.VarDeclaration{Name: "arr", ArraySize: 10},
			&ast.FunDeclaration{
				Name:       "main",
				ReturnType: ast.TypeVoid,
				Body:       &ast.CompoundStmt{},
			},
		},
	}
	tab := New()
	FillProgram(tab, prog)

	vars, funcs := tab.GetGlobalSymbols()
	if len(vars) != 2 || len(funcs) != 1 {
		t.Fatalf("expected 2 vars and 1 func, got %d vars %d funcs", len(vars), len(funcs))
	}
	if vars[1].Type != ast.TypeArray || vars[1].ArraySize != 10 {
		t.Fatalf("expected 'arr' to be an Array[10], got %+v", vars[1])
	}
	if !funcs[0].IsFunction || funcs[0].Label != "main" {
		t.Fatalf("expected 'main' function symbol, got %+v", funcs[0])
	}
}

func TestFillFunctionOrdersParamsBeforeLocals(t *testing.T) {
	fn := &ast.FunDeclaration{
		Name:       "f",
		ReturnType: ast.TypeInt,
		Params: []*ast.Param{
			{Name: "a", IsArrayParam: true},
			{Name: "n", IsArrayParam: false},
		},
		Body: &ast.CompoundStmt{
			Locals: []*ast.VarDeclaration{
				{Name: "sum", ArraySize: 0},
			},
		},
	}
	tab := New()
	FillFunction(tab, fn)

	a, _ := tab.Lookup("a")
	n, _ := tab.Lookup("n")
	sum, _ := tab.Lookup("sum")
	if a.Pos != 1 || n.Pos != 2 || sum.Pos != 3 {
		t.Fatalf("expected positions 1,2,3 got %d,%d,%d", a.Pos, n.Pos, sum.Pos)
	}
	if a.Type != ast.TypeArray {
		t.Fatalf("expected array param type, got %s", a.Type)
	}
}
