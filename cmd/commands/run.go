package commands

// Long-running mode: one tracking pass per scheduled slot until SIGINT/SIGTERM.
// A failed pass is logged and the loop resumes after the fallback pause.

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fdf-monitor/internal/features/schedule"
	"fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runNow bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hourly tracker until interrupted",
	Long:  `Wait for each scheduled slot (default HH:58:45), record every portfolio, notify and optionally publish the data directory.`,
	RunE:  runScheduler,
}

func init() {
	runCmd.Flags().BoolVar(&runNow, "now", false, "Run one pass immediately before waiting for the first slot")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := loadApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	sc := a.cfg.Schedule
	sched, err := schedule.FromMode(sc.Mode, sc.Offset, sc.JitterMin, sc.JitterMax, sc.Cron)
	if err != nil {
		return err
	}

	if a.cfg.Metrics.Addr != "" {
		metrics.NewServer(a.cfg.Metrics.Addr).Start(ctx)
	}

	out := cmd.OutOrStdout()
	job := func(ctx context.Context) error {
		if err := a.checkOnce(ctx, a.accounts.Portfolios, a.cfg.App.RunTimeout, out); err != nil {
			return err
		}
		if a.cfg.Git.Enabled {
			return a.publish(ctx)
		}
		return nil
	}

	log.LogSuccess("Tracker is running",
		zap.String("mode", sc.Mode),
		zap.String("portfolios", portfolioNames(a.accounts.Portfolios)))

	if runNow {
		if err := job(ctx); err != nil {
			log.LogError("Initial run failed", zap.Error(err))
		}
	}

	runner := &schedule.Runner{Schedule: sched, Fallback: sc.Fallback}
	if err := runner.Run(ctx, job); err != nil {
		return err
	}

	log.LogSuccess("Tracker stopped")
	return nil
}
