package commands

// Maintenance: rewrite history files with timestamps snapped to the hour.

import (
	"fmt"

	"fdf-monitor/internal/features/history"
	"fdf-monitor/internal/infra/fs"
	"fdf-monitor/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	alignStrict bool
	alignDryRun bool
)

var alignCmd = &cobra.Command{
	Use:   "align [history.csv ...]",
	Short: "Snap history timestamps to the nearest hour",
	Long: `Rewrite history files so every timestamp sits on a full hour. Without
arguments all configured portfolio history files are processed.`,
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().BoolVar(&alignStrict, "strict", false, "Only minutes 0-1 round down unconditionally")
	alignCmd.Flags().BoolVar(&alignDryRun, "dry-run", false, "Report changes without writing")
}

func runAlign(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		a, err := loadApp(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer a.close()
		for _, p := range a.accounts.Portfolios {
			files = append(files, p.HistoryFile)
		}
	}

	lower := history.DefaultLowerBand
	if alignStrict {
		lower = history.StrictLowerBand
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		store := fs.NewHistoryStore(file)
		records, err := store.ReadAll()
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		aligned, changed := history.AlignRecords(records, lower, history.DefaultUpperBand)
		fmt.Fprintf(out, "%s: %d of %d timestamps adjusted\n", file, changed, len(records))
		if changed == 0 || alignDryRun {
			continue
		}
		if err := store.Rewrite(aligned); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		log.LogSuccess("History aligned", zap.String("file", file), zap.Int("changed", changed))
	}
	return nil
}
