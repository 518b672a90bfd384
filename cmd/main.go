package main

// Entry point: runs the cobra command tree and maps errors to exit codes
// (0 success, 1 failure, 2 timeout).

import (
	"fmt"
	"os"

	"fdf-monitor/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
