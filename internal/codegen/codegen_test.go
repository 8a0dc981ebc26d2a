package codegen

import (
	"strings"
	"testing"

	"github.com/minicc/minicc/internal/lexer"
	"github.com/minicc/minicc/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, src)
	prog := p.ParseProgram()
	if !p.IsSyntaxValid() {
		t.Fatalf("parse errors for:\n%s\n%v", src, p.Errors())
	}
	return New().Generate(prog)
}

func requireContains(t *testing.T, asm, substr string) {
	t.Helper()
	if !strings.Contains(asm, substr) {
		t.Fatalf("expected generated assembly to contain %q, got:\n%s", substr, asm)
	}
}

func TestEmptyProgramWithNoMainYieldsEmptyFile(t *testing.T) {
	asm := generate(t, `void f(void) { }`)
	if asm != "" {
		t.Fatalf("expected empty output (no main), got:\n%s", asm)
	}
}

func TestMinimalMainEmitsBootstrapAndExit(t *testing.T) {
	asm := generate(t, `void main(void) { }`)
	requireContains(t, asm, ".data\n")
	requireContains(t, asm, "newline: .asciiz \"\\n\"")
	requireContains(t, asm, ".globl main")
	requireContains(t, asm, "main:\n")
	requireContains(t, asm, "jal main_entry")
	requireContains(t, asm, "li $v0, 10")
	requireContains(t, asm, "main_entry:\n")
	requireContains(t, asm, "main_exit:\n")
}

func TestGlobalArrayIsHeapAllocatedInBootstrap(t *testing.T) {
	asm := generate(t, `int v[10]; void main(void) { }`)
	requireContains(t, asm, "g_v: .word 0")
	requireContains(t, asm, "li $a0, 40")
	requireContains(t, asm, "li $v0, 9")
	requireContains(t, asm, "sw $v0, g_v")
}

func TestOutputCallLowersToPrintIntAndNewlineSyscalls(t *testing.T) {
	asm := generate(t, `void main(void) { output(42); }`)
	requireContains(t, asm, "li $a0, 42")
	requireContains(t, asm, "li $v0, 1")
	requireContains(t, asm, "la $a0, newline")
}

func TestInputCallLowersToReadIntSyscall(t *testing.T) {
	asm := generate(t, `void main(void) { int x; x = input(); }`)
	requireContains(t, asm, "li $v0, 5")
	requireContains(t, asm, "move $a0, $v0")
}

func TestBinaryOpsLowerToExpectedInstructions(t *testing.T) {
	cases := map[string]string{
		"+":  "add $a0, $t1, $a0",
		"-":  "sub $a0, $t1, $a0",
		"<":  "slt $a0, $t1, $a0",
		"<=": "sle $a0, $t1, $a0",
		">":  "sgt $a0, $t1, $a0",
		">=": "sge $a0, $t1, $a0",
		"==": "seq $a0, $t1, $a0",
		"!=": "sne $a0, $t1, $a0",
	}
	for op, want := range cases {
		src := `void main(void) { int x; x = 1 ` + op + ` 2; }`
		asm := generate(t, src)
		requireContains(t, asm, want)
	}
}

func TestMultiplyAndDivideUseMultAndDiv(t *testing.T) {
	asm := generate(t, `void main(void) { int x; x = 2 * 3; }`)
	requireContains(t, asm, "mult $t1, $a0")
	requireContains(t, asm, "mflo $a0")

	asm = generate(t, `void main(void) { int x; x = 6 / 2; }`)
	requireContains(t, asm, "div $t1, $a0")
	requireContains(t, asm, "mflo $a0")
}

func TestIfElseEmitsUniqueLabelsPerOccurrence(t *testing.T) {
	asm := generate(t, `
		void main(void) {
			int x;
			x = 0;
			if (x < 1) { x = 1; } else { x = 2; }
			if (x < 1) { x = 1; } else { x = 2; }
		}
	`)
	requireContains(t, asm, "true_branch_1:")
	requireContains(t, asm, "false_branch_1:")
	requireContains(t, asm, "end_if_1:")
	requireContains(t, asm, "true_branch_2:")
	requireContains(t, asm, "false_branch_2:")
	requireContains(t, asm, "end_if_2:")
}

func TestWhileLoopEmitsEntryAndExitLabels(t *testing.T) {
	asm := generate(t, `
		void main(void) {
			int i;
			i = 0;
			while (i < 3) { i = i + 1; }
		}
	`)
	requireContains(t, asm, "while_entry_1:")
	requireContains(t, asm, "while_exit_1:")
	requireContains(t, asm, "b while_entry_1")
}

func TestUserFunctionCallEmitsEntryExitLabelsAndJal(t *testing.T) {
	asm := generate(t, `
		int add(int a, int b) { return a + b; }
		void main(void) { int x; x = add(1, 2); }
	`)
	requireContains(t, asm, "add_entry:")
	requireContains(t, asm, "add_exit:")
	requireContains(t, asm, "jal add_entry")
}

func TestFunctionEpilogueDeallocatesScopeAndTwoSavedWords(t *testing.T) {
	asm := generate(t, `int f(int a, int b) { int c; return a; } void main(void) { }`)
	// scope length = 3 (a, b, c) -> deallocate 4*3+8 = 20, saved-fp at 4*3+4=16
	requireContains(t, asm, "lw $fp, 16($fp)")
	requireContains(t, asm, "addiu $sp, $sp, 20")
}

func TestArrayIndexLoadComputesScaledAddress(t *testing.T) {
	asm := generate(t, `void main(void) { int v[3]; int x; v[0] = 9; x = v[0]; }`)
	requireContains(t, asm, "sll $a0, $a0, 2")
	requireContains(t, asm, "add $t0, $t0, $a0")
}

func TestWholeArrayAssignmentCopiesBaseHandle(t *testing.T) {
	asm := generate(t, `void main(void) { int a[3]; int b[3]; a = b; }`)
	// a and b are main's locals at positions 1 and 2: 4($fp) and 8($fp)
	requireContains(t, asm, "lw $a0, 8($fp)")
	requireContains(t, asm, "sw $a0, 4($fp)")
}

func TestReturnInsideNestedBlockUnwindsBlockScope(t *testing.T) {
	asm := generate(t, `
		int f(void) {
			int a;
			if (a < 1) {
				int b;
				return b;
			}
			return a;
		}
		void main(void) { }
	`)
	// the if-block scope has one local (b) -> controlStatementOffset = (1+2)*4 = 12
	requireContains(t, asm, "addiu $sp, $sp, 12")
	requireContains(t, asm, "b f_exit")
}
