package minicc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckSyntaxValidProgram(t *testing.T) {
	res, err := New().CheckSyntax(`void main(void) { output(1); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsSyntaxCorrect {
		t.Fatalf("expected syntax-correct, got %+v", res)
	}
}

func TestCheckSyntaxReportsFirstError(t *testing.T) {
	res, err := New().CheckSyntax(`void main(void) { x = }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsSyntaxCorrect {
		t.Fatalf("expected a syntax error")
	}
	if res.Line == 0 {
		t.Fatalf("expected a nonzero line number")
	}
}

func TestCheckSyntaxStrictModeReturnsError(t *testing.T) {
	_, err := New(WithStrict(true)).CheckSyntax(`void main(void) { x = }`)
	if err == nil {
		t.Fatalf("expected strict mode to return an error")
	}
}

func TestCheckTypingValidProgram(t *testing.T) {
	res, err := New().CheckTyping(`void main(void) { int x; x = 1; output(x); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
}

func TestCheckTypingReportsSemanticError(t *testing.T) {
	res, err := New().CheckTyping(`void main(void) { output(y); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid {
		t.Fatalf("expected an invalid program")
	}
	if !strings.Contains(res.Error, "undeclared") {
		t.Fatalf("expected an undeclared-identifier message, got %q", res.Error)
	}
}

func TestCompileWritesAssemblyFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.asm")

	if err := New().Compile(`void main(void) { output(1); }`, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if !strings.Contains(string(data), "main_entry:") {
		t.Fatalf("expected generated assembly, got:\n%s", data)
	}
}

func TestCompileFailsOnSyntaxError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.asm")

	err := New().Compile(`void main(void) { x = }`, out)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatalf("expected no output file to be written on error")
	}
}
