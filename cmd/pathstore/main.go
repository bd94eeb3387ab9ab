// Command pathstore reads and writes nested values in persistent documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pathstore/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		os.Exit(cli.ExitSuccess)
	}

	// Commands report their own failures through the output formatter;
	// anything else (bad arguments, unknown flags) is printed here.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
