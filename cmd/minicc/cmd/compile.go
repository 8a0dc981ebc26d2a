package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minicc/minicc/pkg/minicc"
	"github.com/spf13/cobra"
)

var compileOutputFile string

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a MiniC file to SPIM-compatible MIPS assembly",
	Long: `Compile a MiniC program to MIPS assembly and save it as a .asm file.

Examples:
  minicc compile program.mc
  minicc compile program.mc -o program.asm
  minicc compile --strict program.mc`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutputFile, "output", "o", "", "output file (default: <input>.asm)")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, _, err := readSource(args, "")
	if err != nil {
		return err
	}

	outFile := compileOutputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		if loadedConfig.OutDir != "" {
			base = filepath.Join(loadedConfig.OutDir, filepath.Base(base))
		}
		outFile = base + ".asm"
	}

	eng := minicc.New(minicc.WithStrict(strictFlag), minicc.WithEmitComments(emitCommentsFlag))
	if err := eng.Compile(source, outFile); err != nil {
		return err
	}

	fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	return nil
}
