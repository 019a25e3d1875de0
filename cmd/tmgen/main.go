// Command tmgen compiles tape programs into Turing machine quintuples.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/roach88/tmgen/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()

	// Commands report their own failures; anything else is printed here.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	atexit.Exit(cli.GetExitCode(err))
}
