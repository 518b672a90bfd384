package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"fdf-monitor/internal/features/history"
	"fdf-monitor/internal/infra/fs"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var reportPortfolio string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the latest record and recent changes per portfolio",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportPortfolio, "portfolio", "", "Only report this portfolio")
}

var reportWindows = []struct {
	label  string
	window time.Duration
}{
	{"1h", time.Hour},
	{"24h", 24 * time.Hour},
	{"7d", 7 * 24 * time.Hour},
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context(), cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	portfolios, err := a.portfolios(reportPortfolio)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	now := time.Now()
	for _, p := range portfolios {
		records, err := fs.NewHistoryStore(p.HistoryFile).ReadAll()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		writeReport(out, p.Name, records, now)
	}
	return nil
}

func writeReport(out io.Writer, name string, records []fs.Record, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintf(out, "%s: no history yet\n", name)
		return
	}
	last := records[len(records)-1]
	fmt.Fprintf(out, "%s: %s at %s (%s, %d records)\n",
		name, money(last.TotalValue), last.Timestamp.Format(fs.TimestampLayout),
		humanize.Time(last.Timestamp), len(records))

	if c, ok := history.SinceYesterday(records, now, last.TotalValue); ok {
		fmt.Fprintf(out, "  since yesterday %s\n", signedPercent(c.Percent))
	}
	for _, w := range reportWindows {
		c, ok := history.ChangeOver(records, now, w.window, last.TotalValue)
		if !ok {
			fmt.Fprintf(out, "  %-4s n/a\n", w.label)
			continue
		}
		fmt.Fprintf(out, "  %-4s %s (from %s)\n", w.label, signedPercent(c.Percent), money(c.Reference.TotalValue))
	}
}

func signedPercent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
