package errors

import (
	"strings"
	"testing"

	"github.com/minicc/minicc/internal/lexer"
)

func TestFormatPlainHasNoEscapeCodes(t *testing.T) {
	e := New(Syntax, lexer.Position{Line: 1, Column: 5}, "unexpected token", "x = 5 +\n")
	out := e.Format(false)
	if strings.Contains(out, "\033[") {
		t.Fatalf("expected no ANSI codes in plain output, got:\n%s", out)
	}
	if !strings.Contains(out, ">>> Syntax error found at line 1: unexpected token") {
		t.Fatalf("missing diagnostic header, got:\n%s", out)
	}
}

func TestFormatColorWrapsMessageAndCaret(t *testing.T) {
	e := New(Semantic, lexer.Position{Line: 1, Column: 1}, "bad type", "x;\n")
	out := e.Format(true)
	if !strings.Contains(out, ansiBold) || !strings.Contains(out, ansiRed) || !strings.Contains(out, ansiReset) {
		t.Fatalf("expected bold/red/reset codes in colored output, got:\n%s", out)
	}
}

func TestFormatWithContextShowsSurroundingLines(t *testing.T) {
	src := "int a;\nint b;\nint c;\nint d;\nint e;\n"
	e := New(Semantic, lexer.Position{Line: 3, Column: 5}, "bad decl", src)
	out := e.FormatWithContext(1, false)
	if !strings.Contains(out, "   2 | int b;") || !strings.Contains(out, "   4 | int d;") {
		t.Fatalf("expected context lines 2 and 4, got:\n%s", out)
	}
	if strings.Contains(out, "int a;") || strings.Contains(out, "int e;") {
		t.Fatalf("expected lines outside the window to be excluded, got:\n%s", out)
	}
}

func TestFormatErrorsJoinsMultipleDiagnostics(t *testing.T) {
	errs := []*CompilerError{
		New(Syntax, lexer.Position{Line: 1, Column: 1}, "first", "a\nb\n"),
		New(Syntax, lexer.Position{Line: 2, Column: 1}, "second", "a\nb\n"),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected both diagnostics present, got:\n%s", out)
	}
}
