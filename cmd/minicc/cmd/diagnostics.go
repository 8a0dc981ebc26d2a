package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minicc/minicc/internal/errors"
)

// printDiagnostics renders a pass's accumulated errors: the compact
// `>>> ... error found at line L` form by default, colored source context
// (FormatWithContext) with --verbose, or a structured array with --json.
func printDiagnostics(stage string, errs []*errors.CompilerError) {
	if jsonFlag {
		type diag struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
			Line    int    `json:"line"`
			Column  int    `json:"column"`
		}
		out := make([]diag, len(errs))
		for i, e := range errs {
			out[i] = diag{Kind: string(e.Kind), Message: e.Message, Line: e.Pos.Line, Column: e.Pos.Column}
		}
		_ = json.NewEncoder(os.Stderr).Encode(map[string]any{stage: out})
		return
	}
	if verboseFlag {
		for _, e := range errs {
			fmt.Fprint(os.Stderr, e.FormatWithContext(2, true))
			fmt.Fprintln(os.Stderr)
		}
		return
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(errs, false))
	fmt.Fprintln(os.Stderr)
}
