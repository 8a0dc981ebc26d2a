package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minicc/minicc/pkg/minicc"
	"github.com/spf13/cobra"
)

var checkTypesEvalExpr string

var checkTypesCmd = &cobra.Command{
	Use:   "check-types [file]",
	Short: "Report whether a MiniC program type-checks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheckTypes,
}

func init() {
	rootCmd.AddCommand(checkTypesCmd)
	checkTypesCmd.Flags().StringVarP(&checkTypesEvalExpr, "eval", "e", "", "check inline code instead of reading from a file")
}

func runCheckTypes(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args, checkTypesEvalExpr)
	if err != nil {
		return err
	}

	res, err := minicc.New(minicc.WithStrict(strictFlag)).CheckTyping(source)
	if err != nil {
		return err
	}

	if jsonFlag {
		return json.NewEncoder(os.Stdout).Encode(res)
	}
	if res.Valid {
		fmt.Println("types OK")
		return nil
	}
	fmt.Printf("type error at line %d, column %d: %s\n", res.Line, res.Column, res.Error)
	return fmt.Errorf("type check failed")
}
