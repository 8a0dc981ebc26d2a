package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minicc/minicc/pkg/minicc"
	"github.com/spf13/cobra"
)

var checkSyntaxEvalExpr string

var checkSyntaxCmd = &cobra.Command{
	Use:   "check-syntax [file]",
	Short: "Report whether a MiniC program is syntactically valid",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheckSyntax,
}

func init() {
	rootCmd.AddCommand(checkSyntaxCmd)
	checkSyntaxCmd.Flags().StringVarP(&checkSyntaxEvalExpr, "eval", "e", "", "check inline code instead of reading from a file")
}

func runCheckSyntax(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args, checkSyntaxEvalExpr)
	if err != nil {
		return err
	}

	res, err := minicc.New(minicc.WithStrict(strictFlag)).CheckSyntax(source)
	if err != nil {
		return err
	}

	if jsonFlag {
		return json.NewEncoder(os.Stdout).Encode(res)
	}
	if res.IsSyntaxCorrect {
		fmt.Println("syntax OK")
		return nil
	}
	fmt.Printf("syntax error at line %d, column %d: %s\n", res.Line, res.Column, res.Error)
	return fmt.Errorf("syntax check failed")
}
