package commands

// Root command: shared flags, config loading and logger setup for every
// subcommand (run, check, snapshot, align, report, chart).

import (
	"errors"

	"fdf-monitor/internal/infra/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fdf-monitor",
	Short: "FDF Monitor - hourly wallet balance tracker with push notifications",
	Long: `FDF Monitor reads on-chain token balances and holdings valuations for the
configured portfolios, appends them to per-portfolio CSV history files and
pushes a summary with the change since yesterday.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(chartCmd)
}

const (
	ExitFailure = 1
	ExitTimeout = 2
)

// ExitError selects the process exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code for an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
