package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minicc/minicc/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	showPos     bool
	showType    bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a MiniC file or expression",
	Long: `Tokenize (lex) a MiniC program and print the resulting tokens.

Examples:
  minicc lex program.mc
  minicc lex -e "int x; x = 1;"
  minicc lex --show-type --show-pos program.mc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
}

type tokenJSON struct {
	Type    string `json:"type"`
	Literal string `json:"literal,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func runLex(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args, lexEvalExpr)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == lexer.ENDFILE {
			break
		}
	}

	if jsonFlag {
		out := make([]tokenJSON, len(tokens))
		for i, tok := range tokens {
			out[i] = tokenJSON{Type: tok.Kind.String(), Literal: tok.Literal, Line: tok.Pos.Line, Column: tok.Pos.Column}
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	for _, tok := range tokens {
		printToken(tok)
	}
	return nil
}

func printToken(tok lexer.Token) {
	var out string
	if showType {
		out = fmt.Sprintf("[%-10s]", tok.Kind.String())
	}
	if tok.Literal == "" {
		out += fmt.Sprintf(" %s", tok.Kind.String())
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
