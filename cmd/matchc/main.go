// Command matchc compiles embedded pattern-matching DSL sites in
// TypeScript sources.
package main

import (
	"os"

	"github.com/roach88/matchc/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
