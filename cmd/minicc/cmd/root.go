// Package cmd implements the minicc command-line tool: lex, parse,
// check-syntax, check-types, and compile, each a thin cobra wrapper
// around the internal pipeline packages.
package cmd

import (
	"fmt"
	"os"

	"github.com/minicc/minicc/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var (
	strictFlag       bool
	jsonFlag         bool
	emitCommentsFlag bool
	verboseFlag      bool
	configPath       string
	loadedConfig     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "minicc",
	Short: "MiniC lexer, parser, type checker, and MIPS code generator",
	Long: `minicc compiles MiniC, a small C subset, ahead of time to
SPIM-compatible MIPS assembly.

MiniC supports int/void types, fixed-size arrays, if/while, and
functions. Each stage of the pipeline — lex, parse, check-syntax,
check-types, compile — is exposed as its own subcommand so the pipeline
can be inspected one stage at a time.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))

	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "abort on the first diagnostic instead of accumulating them")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print machine-readable JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to a .minicc.yaml config file")
	rootCmd.PersistentFlags().BoolVar(&emitCommentsFlag, "emit-comments", false, "add comments marking the bootstrap steps to generated assembly")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "print diagnostics with surrounding source context and ANSI color")
}

// loadConfig reads .minicc.yaml (if present) before any subcommand runs,
// and lets it supply defaults for flags the user didn't pass explicitly.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loadedConfig = cfg

	if !cmd.Flags().Changed("strict") && cfg.Strict {
		strictFlag = true
	}
	if !cmd.Flags().Changed("emit-comments") && cfg.EmitComments {
		emitCommentsFlag = true
	}
	return nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

func readSource(args []string, inlineExpr string) (source, filename string, err error) {
	if inlineExpr != "" {
		return inlineExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
