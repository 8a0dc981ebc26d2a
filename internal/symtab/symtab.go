// Package symtab implements the lexically scoped symbol table shared by
// the semantic analyzer and the code generator (spec: both passes walk
// the same AST and build their own instance of this table "with the same
// discipline").
package symtab

import "github.com/minicc/minicc/internal/ast"

// Symbol describes one declared name: a variable, array, or function.
type Symbol struct {
	Label      string
	Type       ast.Type // TypeInt or TypeArray; a function's return type for functions
	Pos        int      // 1-based position within its scope (AR slot index)
	ArraySize  int      // 0 for scalars
	IsFunction bool
	IsGlobal   bool
	ParamTypes []ast.Type // for functions
	BodyTypes  []int      // array sizes (0 = scalar) of every top-level local, in declaration order
	ReturnType ast.Type   // for functions
}

// scope is one lexical level: a label-to-symbol map plus insertion order
// so Pos can be assigned deterministically.
type scope struct {
	symbols map[string]*Symbol
	order   []string
}

func newScope() *scope {
	return &scope{symbols: make(map[string]*Symbol)}
}

func (s *scope) define(sym *Symbol) {
	sym.Pos = len(s.order) + 1
	s.symbols[sym.Label] = sym
	s.order = append(s.order, sym.Label)
}

// Table is a stack of scopes; the bottom scope (index 0) is global.
type Table struct {
	scopes []*scope
}

// New creates a Table with an empty global scope already pushed.
func New() *Table {
	return &Table{scopes: []*scope{newScope()}}
}

// Push opens a new, innermost scope.
func (t *Table) Push() {
	t.scopes = append(t.scopes, newScope())
}

// Pop discards the innermost scope.
func (t *Table) Pop() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Define adds sym to the current (innermost) scope, assigning its Pos.
func (t *Table) Define(sym *Symbol) {
	t.scopes[len(t.scopes)-1].define(sym)
}

// Lookup resolves label starting at the innermost scope and moving
// outward (lexical shadowing).
func (t *Table) Lookup(label string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[label]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal resolves label only within the innermost scope (used to
// detect duplicate declarations within one scope).
func (t *Table) LookupLocal(label string) (*Symbol, bool) {
	sym, ok := t.scopes[len(t.scopes)-1].symbols[label]
	return sym, ok
}

// CurrentScopeLength returns the number of symbols defined in the
// innermost scope.
func (t *Table) CurrentScopeLength() int {
	return len(t.scopes[len(t.scopes)-1].order)
}

// CurrentScope returns the symbols of the innermost scope, in declaration
// order.
func (t *Table) CurrentScope() []*Symbol {
	s := t.scopes[len(t.scopes)-1]
	syms := make([]*Symbol, len(s.order))
	for i, label := range s.order {
		syms[i] = s.symbols[label]
	}
	return syms
}

// GetGlobalSymbols partitions the global (bottom) scope into variables
// and functions.
func (t *Table) GetGlobalSymbols() (vars []*Symbol, funcs []*Symbol) {
	global := t.scopes[0]
	for _, label := range global.order {
		sym := global.symbols[label]
		if sym.IsFunction {
			funcs = append(funcs, sym)
		} else {
			vars = append(vars, sym)
		}
	}
	return vars, funcs
}

// Depth returns how many scopes are currently pushed (global counts as
// one).
func (t *Table) Depth() int { return len(t.scopes) }

// ScopeOffset computes the byte distance (spec §4.3) from the current
// frame's $fp to the $fp of the scope that binds label: for every scope
// traversed strictly before the one that defines label, add
// (len(scope)+2)*4 bytes (the two saved words per activation record).
// Returns 0 when label is bound in the innermost scope.
func (t *Table) ScopeOffset(label string) int {
	offset := 0
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i].symbols[label]; ok {
			return offset
		}
		offset += (len(t.scopes[i].order) + 2) * 4
	}
	return offset
}

// LookupDepth resolves label the same way Lookup does, but also reports
// the scope depth (0 = global) at which it was found — the code
// generator needs this to compute a symbol's $fp-relative address via
// OffsetToDepth.
func (t *Table) LookupDepth(label string) (*Symbol, int, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[label]; ok {
			return sym, i, true
		}
	}
	return nil, 0, false
}

// OffsetToDepth returns the cumulative byte reservation made by nested
// control-flow scopes between the current function's own scope (depth 1)
// and depth, exclusive of depth itself. Every symbol lives at a fixed
// offset from the enclosing function's $fp (spec §4.5): a symbol bound at
// depth 1 (the function's own parameters/locals) needs no displacement,
// while one bound inside a nested if/while block needs the space reserved
// by every scope between the function scope and that block added on top
// of its own position.
func (t *Table) OffsetToDepth(depth int) int {
	offset := 0
	for i := 2; i < depth; i++ {
		offset += (len(t.scopes[i].order) + 2) * 4
	}
	return offset
}

// ControlStatementOffset sums enclosing-scope sizes the same way as
// ScopeOffset but stops before the two outermost scopes (global and the
// current function's own scope): used to unwind nested control-flow
// scopes (if/while bodies) on an early return, without also unwinding the
// function's own activation record (the function epilogue does that).
func (t *Table) ControlStatementOffset() int {
	offset := 0
	for i := len(t.scopes) - 1; i >= 2; i-- {
		offset += (len(t.scopes[i].order) + 2) * 4
	}
	return offset
}

// FillProgram populates the global scope with every top-level
// declaration: variables first in source order, then functions (each
// function symbol records its parameter types and per-local array sizes
// so the code generator can pre-allocate locals at call sites without
// re-walking the callee's body).
func FillProgram(t *Table, prog *ast.Program) {
	for _, decl := range prog.Declarations {
		if d, ok := decl.(*ast.VarDeclaration); ok {
			t.Define(&Symbol{
				Label:     d.Name,
				Type:      varType(d.ArraySize),
				ArraySize: d.ArraySize,
				IsGlobal:  true,
			})
		}
	}
	for _, decl := range prog.Declarations {
		if d, ok := decl.(*ast.FunDeclaration); ok {
			t.Define(funSymbol(d))
		}
	}
}

// FillFunction pushes a new scope for fn's body and populates it with
// fn's parameters (in declaration order, lowest positions) followed by
// the direct local declarations of its compound body.
func FillFunction(t *Table, fn *ast.FunDeclaration) {
	t.Push()
	for _, p := range fn.Params {
		typ := ast.TypeInt
		if p.IsArrayParam {
			typ = ast.TypeArray
		}
		t.Define(&Symbol{Label: p.Name, Type: typ})
	}
	for _, local := range fn.Body.Locals {
		t.Define(&Symbol{
			Label:     local.Name,
			Type:      varType(local.ArraySize),
			ArraySize: local.ArraySize,
		})
	}
}

func varType(arraySize int) ast.Type {
	if arraySize > 0 {
		return ast.TypeArray
	}
	return ast.TypeInt
}

func funSymbol(fn *ast.FunDeclaration) *Symbol {
	paramTypes := make([]ast.Type, len(fn.Params))
	for i, p := range fn.Params {
		if p.IsArrayParam {
			paramTypes[i] = ast.TypeArray
		} else {
			paramTypes[i] = ast.TypeInt
		}
	}
	bodyTypes := make([]int, len(fn.Body.Locals))
	for i, local := range fn.Body.Locals {
		bodyTypes[i] = local.ArraySize
	}
	return &Symbol{
		Label:      fn.Name,
		Type:       fn.ReturnType,
		IsFunction: true,
		IsGlobal:   true,
		ParamTypes: paramTypes,
		BodyTypes:  bodyTypes,
		ReturnType: fn.ReturnType,
	}
}
