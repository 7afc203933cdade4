package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/evolve/internal/cli"
)

func main() {
	command := cli.NewRootCommand()
	if err := command.Execute(); err != nil {
		// Commands report their own ExitErrors; anything else is a usage error.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
