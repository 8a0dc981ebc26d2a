// Package codegen lowers a type-checked MiniC AST to SPIM-compatible MIPS
// assembly text. It walks the same AST the semantic analyzer walks,
// building its own symtab.Table with the same scoping discipline (spec:
// "the code generator walks the same AST ... building its own symbol
// table"), and accumulates output in a growable text buffer flushed once
// at the end (no streaming is required).
//
// # Activation record convention
//
// Every real call (a `jal <name>_entry`) establishes a frame where the
// callee's prologue is:
//
//	addiu $sp, $sp, -4
//	sw    $ra, 0($sp)
//	move  $fp, $sp
//
// so that $fp always points at the saved-$ra/padding word, and slot p
// (1-indexed, parameters then top-level locals, in that order) lives at
// 4*p($fp) — exactly the "(p*4 + scopeOffset)($fp)" addressing rule from
// spec §4.5. The caller pushes, in order: the old $fp, then each callee
// local (highest scope position first, so position 1 ends up closest to
// $fp — the literal reading of "bottom-up"), then each argument
// right-to-left (so parameter 1 also ends up closest to $fp). The
// function epilogue undoes exactly this:
//
//	lw    $ra, 0($fp)
//	lw    $fp, (4*len(scope)+4)($fp)
//	addiu $sp, $sp, 4*len(scope)+8
//	jr    $ra
//
// Nested control-flow scopes (an `if`/`while` body with its own local
// declarations) do NOT get a second $fp here, unlike the original
// reference implementation's code generator (which re-points $fp at
// every nested block, the same shape as a real call's AR). MiniC never
// needs cross-call addressing for a block's locals, so they are modeled
// instead as a flat stack reservation against the *same* function-wide
// $fp, addressed through symtab's scopeOffset/controlStatementOffset as
// static compile-time displacements. This makes the early-`return`
// unwind a single `addiu` with nothing to restore in $fp, since it never
// moved. See DESIGN.md for the tradeoff this departure makes.
package codegen

import (
	"fmt"
	"strings"

	"github.com/minicc/minicc/internal/ast"
	"github.com/minicc/minicc/internal/symtab"
)

const wordSize = 4

// Option configures a Generator.
type Option func(*Generator)

// WithComments adds `#` comment lines to the emitted assembly marking the
// bootstrap steps (each global-array allocation and the call to the
// user's main). Generated code is not annotated with source lines.
func WithComments(enabled bool) Option {
	return func(g *Generator) { g.emitComments = enabled }
}

// Generator accumulates MIPS assembly text for one compilation unit.
type Generator struct {
	tab  *symtab.Table
	data strings.Builder
	text strings.Builder

	labelCounter        int
	emitComments        bool
	currentFunctionName string
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{tab: symtab.New()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate lowers prog to a complete SPIM assembly file. The code
// generator assumes prog has already passed the semantic analyzer (spec
// §7: "the code generator is never invoked when isSyntaxValid or
// isTypingValid is false"); behavior on an invalid AST is unspecified.
//
// If prog declares no function named "main", Generate returns an empty
// string — a deliberate sentinel for downstream tooling (spec §4.5).
func (g *Generator) Generate(prog *ast.Program) string {
	symtab.FillProgram(g.tab, prog)

	mainDecl := findMain(prog)
	if mainDecl == nil {
		return ""
	}

	g.emitDataSection(prog)
	g.emitTextSection(prog)

	return g.data.String() + g.text.String()
}

func findMain(prog *ast.Program) *ast.FunDeclaration {
	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.FunDeclaration); ok && fn.Name == "main" {
			return fn
		}
	}
	return nil
}

func globalLabel(name string) string { return "g_" + name }
func entryLabel(name string) string  { return name + "_entry" }
func exitLabel(name string) string   { return name + "_exit" }

func (g *Generator) emitf(format string, args ...interface{}) {
	fmt.Fprintf(&g.text, format+"\n", args...)
}

func (g *Generator) comment(format string, args ...interface{}) {
	if !g.emitComments {
		return
	}
	fmt.Fprintf(&g.text, "    # "+format+"\n", args...)
}

func (g *Generator) nextLabel() int {
	g.labelCounter++
	return g.labelCounter
}

// emitDataSection declares the newline constant plus one word per global
// scalar and one word per global array handle (spec §4.5 "Memory
// layout").
func (g *Generator) emitDataSection(prog *ast.Program) {
	g.data.WriteString(".data\n")
	g.data.WriteString("newline: .asciiz \"\\n\"\n")
	g.data.WriteString(".align 2\n")
	for _, decl := range prog.Declarations {
		if v, ok := decl.(*ast.VarDeclaration); ok {
			fmt.Fprintf(&g.data, "%s: .word 0\n", globalLabel(v.Name))
		}
	}
}

func (g *Generator) emitTextSection(prog *ast.Program) {
	g.text.WriteString(".text\n")
	g.text.WriteString(".globl main\n")
	g.text.WriteString("main:\n")
	g.emitBootstrap(prog)

	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.FunDeclaration); ok {
			g.emitFunction(fn)
		}
	}
}

// emitBootstrap heap-allocates every global array, calls the user's
// main, and exits (spec §4.5 "Program start").
func (g *Generator) emitBootstrap(prog *ast.Program) {
	for _, decl := range prog.Declarations {
		v, ok := decl.(*ast.VarDeclaration)
		if !ok || v.ArraySize == 0 {
			continue
		}
		g.comment("heap-allocate global array %s[%d]", v.Name, v.ArraySize)
		g.emitf("    li $a0, %d", v.ArraySize*wordSize)
		g.emitf("    li $v0, 9")
		g.emitf("    syscall")
		g.emitf("    sw $v0, %s", globalLabel(v.Name))
	}

	g.comment("call user main")
	g.emitUserCall("main", nil)

	g.emitf("    li $v0, 10")
	g.emitf("    syscall")
}

// emitUserCall lowers a call to a user-defined function: push old $fp,
// pre-allocate the callee's locals, push arguments right-to-left, jal.
func (g *Generator) emitUserCall(name string, args []ast.Expression) {
	sym, ok := g.tab.Lookup(name)
	if !ok || !sym.IsFunction {
		return // unreachable on a semantically valid AST
	}

	g.push("$fp")
	for i := len(sym.BodyTypes) - 1; i >= 0; i-- {
		g.pushLocalSlot(sym.BodyTypes[i])
	}
	for i := len(args) - 1; i >= 0; i-- {
		g.genExpr(args[i])
		g.push("$a0")
	}
	g.emitf("    jal %s", entryLabel(name))
}

// pushLocalSlot reserves one callee-local slot at call time: a
// heap-allocated array handle, or an uninitialized scalar word.
func (g *Generator) pushLocalSlot(arraySize int) {
	if arraySize > 0 {
		g.emitf("    li $a0, %d", arraySize*wordSize)
		g.emitf("    li $v0, 9")
		g.emitf("    syscall")
		g.push("$v0")
	} else {
		g.push("$zero")
	}
}

func (g *Generator) push(reg string) {
	g.emitf("    addiu $sp, $sp, -4")
	g.emitf("    sw %s, 0($sp)", reg)
}

func (g *Generator) pop(reg string) {
	g.emitf("    lw %s, 0($sp)", reg)
	g.emitf("    addiu $sp, $sp, 4")
}

// emitFunction lowers one user function: entry prologue, body, exit
// epilogue.
func (g *Generator) emitFunction(fn *ast.FunDeclaration) {
	prevName := g.currentFunctionName
	g.currentFunctionName = fn.Name

	symtab.FillFunction(g.tab, fn)
	scopeLen := g.tab.CurrentScopeLength()

	g.text.WriteString(entryLabel(fn.Name) + ":\n")
	g.emitf("    addiu $sp, $sp, -4")
	g.emitf("    sw $ra, 0($sp)")
	g.emitf("    move $fp, $sp")

	for _, stmt := range fn.Body.Statements {
		g.genStatement(stmt)
	}

	g.text.WriteString(exitLabel(fn.Name) + ":\n")
	g.emitf("    lw $ra, 0($fp)")
	g.emitf("    lw $fp, %d($fp)", wordSize*scopeLen+4)
	g.emitf("    addiu $sp, $sp, %d", wordSize*scopeLen+8)
	g.emitf("    jr $ra")

	g.tab.Pop()
	g.currentFunctionName = prevName
}

// genStatement lowers one statement. Control-flow constructs use a
// shared monotone label counter so `while_entry_N`, `true_branch_N`, etc.
// are globally unique (spec §4.5 "Control-label uniqueness").
func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.CompoundStmt:
		g.genNestedScope(s)
	case *ast.Selection:
		g.genSelection(s)
	case *ast.Iteration:
		g.genIteration(s)
	case *ast.Return:
		g.genReturn(s)
	case *ast.ExpressionStmt:
		g.genExpr(s.Expr)
	case nil:
		// dropped empty statement
	}
}

// genNestedScope lowers a compound statement used as a nested block (an
// if/while body), reserving 4*len(scope)+8 bytes of stack for it against
// the enclosing function's $fp (see the package doc comment) — the same
// amount symtab's OffsetToDepth and ControlStatementOffset count for it,
// including when the block declares no locals.
func (g *Generator) genNestedScope(c *ast.CompoundStmt) {
	g.tab.Push()
	for _, local := range c.Locals {
		g.tab.Define(&symtab.Symbol{Label: local.Name, Type: varType(local.ArraySize), ArraySize: local.ArraySize})
	}
	scopeLen := g.tab.CurrentScopeLength()

	g.emitf("    addiu $sp, $sp, -%d", wordSize*scopeLen+8)
	for _, local := range c.Locals {
		if local.ArraySize == 0 {
			continue
		}
		sym, symDepth, _ := g.tab.LookupDepth(local.Name)
		g.emitf("    li $a0, %d", local.ArraySize*wordSize)
		g.emitf("    li $v0, 9")
		g.emitf("    syscall")
		g.emitf("    sw $v0, %s", g.address(sym, symDepth))
	}

	for _, stmt := range c.Statements {
		g.genStatement(stmt)
	}

	g.emitf("    addiu $sp, $sp, %d", wordSize*scopeLen+8)
	g.tab.Pop()
}

func (g *Generator) genSelection(s *ast.Selection) {
	n := g.nextLabel()
	g.genExpr(s.Condition)
	g.emitf("    beq $a0, $zero, false_branch_%d", n)

	g.text.WriteString(fmt.Sprintf("true_branch_%d:\n", n))
	g.genStatement(s.Then)
	g.emitf("    b end_if_%d", n)

	g.text.WriteString(fmt.Sprintf("false_branch_%d:\n", n))
	if s.Else != nil {
		g.genStatement(s.Else)
	}

	g.text.WriteString(fmt.Sprintf("end_if_%d:\n", n))
}

func (g *Generator) genIteration(it *ast.Iteration) {
	n := g.nextLabel()
	g.text.WriteString(fmt.Sprintf("while_entry_%d:\n", n))
	g.genExpr(it.Condition)
	g.emitf("    beq $a0, $zero, while_exit_%d", n)
	g.genStatement(it.Body)
	g.emitf("    b while_entry_%d", n)
	g.text.WriteString(fmt.Sprintf("while_exit_%d:\n", n))
}

// genReturn evaluates the optional return value into $a0, unwinds any
// pending nested control-flow scopes with a single addiu (spec §4.5), and
// branches to the function's exit label.
func (g *Generator) genReturn(ret *ast.Return) {
	if ret.Value != nil {
		g.genExpr(ret.Value)
	}
	if off := g.tab.ControlStatementOffset(); off != 0 {
		g.emitf("    addiu $sp, $sp, %d", off)
	}
	g.emitf("    b %s", exitLabel(g.enclosingFunctionName()))
}

// enclosingFunctionName returns the name of the function whose body is
// being generated. Generator tracks it directly in currentFunctionName
// (set by emitFunction) instead of re-deriving it from the symtab.
func (g *Generator) enclosingFunctionName() string {
	return g.currentFunctionName
}

func varType(arraySize int) ast.Type {
	if arraySize > 0 {
		return ast.TypeArray
	}
	return ast.TypeInt
}

// address renders the MIPS operand for sym, found at the given scope
// depth: a data-segment label for globals (depth 0), a positive
// $fp-relative offset for the function's own parameters/locals (depth
// 1, laid down by the caller's pushes before $fp was set), or a
// negative $fp-relative offset for a nested if/while block's own
// locals (depth >= 2, reserved by decrementing $sp *after* $fp was
// already fixed, so they live below $fp rather than above it).
func (g *Generator) address(sym *symtab.Symbol, depth int) string {
	if depth == 0 {
		return globalLabel(sym.Label)
	}
	if depth == 1 {
		return fmt.Sprintf("%d($fp)", wordSize*sym.Pos)
	}
	off := wordSize*sym.Pos + g.tab.OffsetToDepth(depth)
	return fmt.Sprintf("-%d($fp)", off)
}

// genExpr lowers expr, leaving its value in $a0 (spec §4.5: "$a0 is the
// accumulator for every expression result").
func (g *Generator) genExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		g.emitf("    li $a0, %d", e.Value)

	case *ast.Identifier:
		g.genIdentifierLoad(e)

	case *ast.BinaryOp:
		g.genBinaryOp(e)

	case *ast.Call:
		g.genCallExpr(e)

	case *ast.Assignment:
		g.genAssignment(e)
	}
}

// genIdentifierLoad loads a scalar variable's value, or an indexed
// array element, into $a0.
func (g *Generator) genIdentifierLoad(id *ast.Identifier) {
	sym, depth, ok := g.tab.LookupDepth(id.Name)
	if !ok {
		return // unreachable on a semantically valid AST
	}
	if id.Index == nil {
		g.emitf("    lw $a0, %s", g.address(sym, depth))
		return
	}
	g.genIndexAddress(sym, depth, id.Index)
	g.emitf("    lw $a0, 0($t0)")
}

// genIndexAddress evaluates index, leaves it scaled by the word size,
// loads the array's base handle, and leaves the element address in $t0
// (spec §4.5: "evaluate the index, multiply by 4, add to the array's
// base address").
func (g *Generator) genIndexAddress(sym *symtab.Symbol, depth int, index ast.Expression) {
	g.genExpr(index)
	g.emitf("    sll $a0, $a0, 2")
	g.emitf("    lw $t0, %s", g.address(sym, depth))
	g.emitf("    add $t0, $t0, $a0")
}

var binaryOpCode = map[string]string{
	"+":  "add",
	"-":  "sub",
	"<":  "slt",
	"<=": "sle",
	">":  "sgt",
	">=": "sge",
	"==": "seq",
	"!=": "sne",
}

// genBinaryOp evaluates left, pushes it, evaluates right into $a0, pops
// left into $t1, and combines them per operator (spec §4.5). `*` and `/`
// need the mult/div + mflo pair instead of a three-operand pseudo-op.
func (g *Generator) genBinaryOp(b *ast.BinaryOp) {
	g.genExpr(b.Left)
	g.push("$a0")
	g.genExpr(b.Right)
	g.pop("$t1")

	switch b.Operator {
	case "*":
		g.emitf("    mult $t1, $a0")
		g.emitf("    mflo $a0")
	case "/":
		g.emitf("    div $t1, $a0")
		g.emitf("    mflo $a0")
	default:
		op, ok := binaryOpCode[b.Operator]
		if !ok {
			return // unreachable: parser only ever produces known operators
		}
		g.emitf("    %s $a0, $t1, $a0", op)
	}
}

// genCallExpr dispatches to the two built-ins (spec §4.4) or a user call,
// leaving the callee's return value (if any) in $a0.
func (g *Generator) genCallExpr(call *ast.Call) {
	switch call.Callee {
	case "output":
		g.genExpr(call.Args[0])
		g.emitf("    li $v0, 1")
		g.emitf("    syscall")
		g.emitf("    li $v0, 4")
		g.emitf("    la $a0, newline")
		g.emitf("    syscall")
	case "input":
		g.emitf("    li $v0, 5")
		g.emitf("    syscall")
		g.emitf("    move $a0, $v0")
	default:
		g.emitUserCall(call.Callee, call.Args)
	}
}

// genAssignment lowers `lhs = rhs`, handling both a scalar/indexed
// element store and a whole-array assignment (a base-address copy — spec
// §9's resolved Open Question: this aliases rather than deep-copies).
func (g *Generator) genAssignment(assign *ast.Assignment) {
	sym, depth, ok := g.tab.LookupDepth(assign.LHS.Name)
	if !ok {
		return // unreachable on a semantically valid AST
	}

	if assign.LHS.Index != nil {
		g.genIndexAddress(sym, depth, assign.LHS.Index)
		g.push("$t0")
		g.genExpr(assign.RHS)
		g.pop("$t0")
		g.emitf("    sw $a0, 0($t0)")
		return
	}

	if sym.Type == ast.TypeArray {
		g.genArrayHandleExpr(assign.RHS)
		g.emitf("    sw $a0, %s", g.address(sym, depth))
		return
	}

	g.genExpr(assign.RHS)
	g.emitf("    sw $a0, %s", g.address(sym, depth))
}

// genArrayHandleExpr loads an array-valued RHS's base-address handle
// into $a0 instead of evaluating it as a normal scalar expression: whole-
// array assignment only ever has a bare identifier on the right.
func (g *Generator) genArrayHandleExpr(expr ast.Expression) {
	id, ok := expr.(*ast.Identifier)
	if !ok {
		g.genExpr(expr)
		return
	}
	sym, depth, ok := g.tab.LookupDepth(id.Name)
	if !ok {
		return
	}
	g.emitf("    lw $a0, %s", g.address(sym, depth))
}
