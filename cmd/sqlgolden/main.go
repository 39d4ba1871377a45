// Command sqlgolden runs directories of SQL golden-file cases.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sqlgolden/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
