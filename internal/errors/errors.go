// Package errors formats MiniC compiler diagnostics with source context:
// the offending line plus a caret under the error column, the same shape
// every pass (lexer, parser, semantic analyzer) reuses.
package errors

import (
	"fmt"
	"strings"

	"github.com/minicc/minicc/internal/lexer"
)

// Kind distinguishes where in the pipeline a diagnostic originated.
type Kind string

const (
	Syntax   Kind = "Syntax"
	Semantic Kind = "Semantic"
)

// CompilerError is a single diagnostic with enough context to render the
// `>>> <kind> error found at line <L>: <message>` format.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	Pos     lexer.Position
}

// New creates a CompilerError.
func New(kind Kind, pos lexer.Position, message, source string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message, Source: source, Pos: pos}
}

// Error implements the error interface.
func (e *CompilerError) Error() string { return e.Format(false) }

const (
	ansiRed   = "\033[1;31m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// Format renders the diagnostic as:
//
//	>>> Syntax error found at line 3: Expected ';' after expression
//	    x = 5 output(x);
//	         ^
//
// With color true, the caret is red-bold and the message is bold, ANSI
// codes a terminal renders and a file/pipe ignores visually but still
// receives literally. The caller chooses; no terminal detection is done.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ">>> %s error found at line %d: ", e.Kind, e.Pos.Line)
	if color {
		sb.WriteString(ansiBold)
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString(ansiReset)
	}
	sb.WriteString("\n")

	line := e.sourceLine(e.Pos.Line)
	sb.WriteString(line)
	sb.WriteString("\n")
	if e.Pos.Column > 0 {
		sb.WriteString(strings.Repeat(" ", e.Pos.Column-1))
	}
	if color {
		sb.WriteString(ansiRed)
	}
	sb.WriteString("^")
	if color {
		sb.WriteString(ansiReset)
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatWithContext renders the diagnostic the same way but with n lines
// of surrounding source on either side, each tagged with its line number
// and dimmed when color is on (except the offending line itself, which
// stays bold).
func (e *CompilerError) FormatWithContext(n int, color bool) string {
	lines := strings.Split(e.Source, "\n")
	start := e.Pos.Line - n
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + n
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, ">>> %s error found at line %d: ", e.Kind, e.Pos.Line)
	if color {
		sb.WriteString(ansiBold)
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString(ansiReset)
	}
	sb.WriteString("\n")
	for ln := start; ln <= end; ln++ {
		highlight := ln == e.Pos.Line
		if color {
			if highlight {
				sb.WriteString(ansiBold)
			} else {
				sb.WriteString(ansiDim)
			}
		}
		fmt.Fprintf(&sb, "%4d | %s", ln, lines[ln-1])
		if color {
			sb.WriteString(ansiReset)
		}
		sb.WriteString("\n")
		if highlight {
			sb.WriteString(strings.Repeat(" ", 7+e.Pos.Column-1))
			if color {
				sb.WriteString(ansiRed)
			}
			sb.WriteString("^")
			if color {
				sb.WriteString(ansiReset)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(n int) string {
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// FormatErrors joins multiple diagnostics, separated by a blank line.
func FormatErrors(errs []*CompilerError, color bool) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Format(color)
	}
	return strings.Join(parts, "\n")
}

// Outcome is the minimal pass-result record spec.md §9's "Error
// accumulation" design note calls for: every pass exposes this instead of
// forcing callers to understand CompilerError internals.
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"error,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// FirstOutcome reduces a diagnostic slice to the first-error summary used
// by checkSyntax/checkTyping.
func FirstOutcome(errs []*CompilerError) Outcome {
	if len(errs) == 0 {
		return Outcome{OK: true}
	}
	first := errs[0]
	return Outcome{OK: false, Message: first.Message, Line: first.Pos.Line, Column: first.Pos.Column}
}

// StrictError is raised by the pipeline wrapper when strict mode is
// enabled and a pass reports at least one diagnostic: it carries the
// formatted first diagnostic as its message, per spec.md §7.
type StrictError struct {
	First *CompilerError
}

func (e *StrictError) Error() string { return e.First.Format(false) }
