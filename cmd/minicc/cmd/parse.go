package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minicc/minicc/internal/lexer"
	"github.com/minicc/minicc/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a MiniC file and print its AST",
	Long: `Parse a MiniC program and print its abstract syntax tree.

Examples:
  minicc parse program.mc
  minicc parse -e "void main(void) { output(1); }"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(args, parseEvalExpr)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	p := parser.New(l, source)
	prog := p.ParseProgram()

	if !p.IsSyntaxValid() {
		printDiagnostics("parse", p.Errors())
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(p.Errors()))
	}

	if jsonFlag {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{"ast": prog.String()})
	}
	fmt.Println(prog.String())
	return nil
}
