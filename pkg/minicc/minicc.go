// Package minicc is the public embedding surface for the MiniC pipeline:
// the three operations an HTTP collaborator (or any other caller) needs
// — checkSyntax, checkTyping, compile — without exposing the lexer,
// parser, analyzer, or code generator packages directly (spec §6).
package minicc

import (
	"fmt"
	"os"

	"github.com/minicc/minicc/internal/codegen"
	"github.com/minicc/minicc/internal/errors"
	"github.com/minicc/minicc/internal/lexer"
	"github.com/minicc/minicc/internal/parser"
	"github.com/minicc/minicc/internal/semantic"
)

// Option configures an Engine.
type Option func(*Engine)

// WithStrict switches the engine into strict mode (spec §7): the first
// diagnostic from any pass aborts the pipeline with a StrictError
// instead of being merely recorded.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithEmitComments adds `#` comment lines to assembly produced by Compile
// marking the bootstrap steps (global-array allocation, the call to
// main); generated code is not annotated with source lines.
func WithEmitComments(emit bool) Option {
	return func(e *Engine) { e.emitComments = emit }
}

// Engine runs the MiniC pipeline. It is stateless between calls and safe
// for concurrent use — every method builds its own lexer/parser/analyzer
// for the source it's given.
type Engine struct {
	strict       bool
	emitComments bool
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyntaxResult is checkSyntax's output shape (spec §6).
type SyntaxResult struct {
	IsSyntaxCorrect bool   `json:"isSyntaxCorrect"`
	Error           string `json:"error,omitempty"`
	Line            int    `json:"line,omitempty"`
	Column          int    `json:"column,omitempty"`
}

// TypingResult is checkTyping's output shape (spec §6).
type TypingResult struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// CheckSyntax runs only the lexer and parser over source and reports
// whether it is syntactically valid.
func (e *Engine) CheckSyntax(source string) (SyntaxResult, error) {
	l := lexer.New(source)
	p := parser.New(l, source)
	p.ParseProgram()

	outcome := errors.FirstOutcome(p.Errors())
	if e.strict && !outcome.OK {
		return SyntaxResult{}, &errors.StrictError{First: p.Errors()[0]}
	}
	return SyntaxResult{
		IsSyntaxCorrect: outcome.OK,
		Error:           outcome.Message,
		Line:            outcome.Line,
		Column:          outcome.Column,
	}, nil
}

// CheckTyping runs the full front end (lexer, parser, and semantic
// analyzer) and reports whether source both parses and type-checks.
func (e *Engine) CheckTyping(source string) (TypingResult, error) {
	l := lexer.New(source)
	p := parser.New(l, source)
	prog := p.ParseProgram()

	if !p.IsSyntaxValid() {
		outcome := errors.FirstOutcome(p.Errors())
		if e.strict {
			return TypingResult{}, &errors.StrictError{First: p.Errors()[0]}
		}
		return TypingResult{Valid: false, Error: outcome.Message, Line: outcome.Line, Column: outcome.Column}, nil
	}

	a := semantic.NewAnalyzer()
	a.SetSource(source)
	a.Analyze(prog)

	outcome := errors.FirstOutcome(a.Errors())
	if e.strict && !outcome.OK {
		return TypingResult{}, &errors.StrictError{First: a.Errors()[0]}
	}
	return TypingResult{
		Valid:  outcome.OK,
		Error:  outcome.Message,
		Line:   outcome.Line,
		Column: outcome.Column,
	}, nil
}

// Compile runs the complete pipeline and writes the resulting MIPS
// assembly to outPath. The code generator is only ever invoked once both
// the parser and the analyzer report validity (spec §7).
func (e *Engine) Compile(source, outPath string) error {
	l := lexer.New(source)
	p := parser.New(l, source)
	prog := p.ParseProgram()

	if !p.IsSyntaxValid() {
		if e.strict {
			return &errors.StrictError{First: p.Errors()[0]}
		}
		return fmt.Errorf("%s", errors.FormatErrors(p.Errors(), false))
	}

	a := semantic.NewAnalyzer()
	a.SetSource(source)
	a.Analyze(prog)

	if !a.IsTypingValid() {
		if e.strict {
			return &errors.StrictError{First: a.Errors()[0]}
		}
		return fmt.Errorf("%s", errors.FormatErrors(a.Errors(), false))
	}

	asm := codegen.New(codegen.WithComments(e.emitComments)).Generate(prog)
	if err := os.WriteFile(outPath, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
