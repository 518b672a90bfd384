package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"fdf-monitor/internal/features/chart"
	"fdf-monitor/internal/infra/fs"

	"github.com/spf13/cobra"
)

var chartDir string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a PNG of each portfolio's total value history",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVar(&chartDir, "dir", "", "Output directory (default <data_dir>/charts)")
}

func runChart(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context(), cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	dir := chartDir
	if dir == "" {
		dir = filepath.Join(a.cfg.App.DataDir, "charts")
	}

	out := cmd.OutOrStdout()
	for _, p := range a.accounts.Portfolios {
		records, err := fs.NewHistoryStore(p.HistoryFile).ReadAll()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		path, err := chart.RenderHistory(records, p.Name, filepath.Join(dir, strings.ToLower(p.Name)+".png"))
		if err != nil {
			fmt.Fprintf(out, "%s: skipped (%v)\n", p.Name, err)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", p.Name, path)
	}
	return nil
}
