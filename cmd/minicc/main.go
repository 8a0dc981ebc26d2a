// Command minicc is the MiniC compiler CLI.
package main

import (
	"fmt"
	"os"

	"github.com/minicc/minicc/cmd/minicc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
