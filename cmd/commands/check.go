package commands

// One tracking pass for all (or one) portfolios, then exit.
// Exit code 0 on success, 1 when a portfolio could not be recorded,
// 2 when the pass ran out of time.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fdf-monitor/internal/features/tracker"
	"fdf-monitor/internal/infra/config"
	"fdf-monitor/internal/infra/exec"
	"fdf-monitor/internal/infra/log"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkPortfolio string
	checkTimeout   time.Duration
	checkPublish   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Record one observation per portfolio and notify",
	Long:  `Fetch balances for every configured portfolio once, append them to the history files, send notifications and exit.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPortfolio, "portfolio", "", "Only check this portfolio")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "Abort the pass after this long (default app.run_timeout)")
	checkCmd.Flags().BoolVar(&checkPublish, "publish", false, "Commit and push the data directory afterwards")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := loadApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	portfolios, err := a.portfolios(checkPortfolio)
	if err != nil {
		return err
	}

	timeout := checkTimeout
	if timeout <= 0 {
		timeout = a.cfg.App.RunTimeout
	}

	if err := a.checkOnce(ctx, portfolios, timeout, cmd.OutOrStdout()); err != nil {
		return err
	}

	if checkPublish || a.cfg.Git.Enabled {
		if err := a.publish(ctx); err != nil {
			log.LogError("Publish failed", zap.Error(err))
			return &ExitError{Code: ExitFailure, Err: err}
		}
	}
	return nil
}

func (a *app) checkOnce(ctx context.Context, portfolios []config.Portfolio, timeout time.Duration, out io.Writer) error {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.LogInfo("Check started", zap.String("portfolios", portfolioNames(portfolios)), zap.Duration("timeout", timeout))
	summaries, err := a.tracker(portfolios).RunOnce(runCtx)
	printSummaries(out, summaries)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &ExitError{Code: ExitTimeout, Err: fmt.Errorf("check timed out after %s", timeout)}
	}
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	return nil
}

func (a *app) publish(ctx context.Context) error {
	p := &tracker.Publisher{
		Git:     &exec.Git{Dir: a.cfg.Git.Dir, Timeout: a.cfg.Git.Timeout},
		Path:    a.cfg.App.DataDir,
		Message: a.cfg.Git.Message,
	}
	_, err := p.Publish(ctx)
	return err
}

func printSummaries(out io.Writer, summaries []tracker.Summary) {
	for _, s := range summaries {
		fmt.Fprintf(out, "== %s (%s)\n", s.Portfolio, s.Record.Timestamp.Format("2006-01-02 15:04:05"))
		for _, o := range s.Owners.Observations {
			fmt.Fprintf(out, "  owner    %s  %s %s\n", o.Address, money(o.Value), s.Owners.Source)
		}
		for _, o := range s.Gold.Observations {
			fmt.Fprintf(out, "  gold     %s  %s %s\n", o.Address, money(o.Value), s.Gold.Source)
		}
		for _, o := range s.Holdings.Observations {
			fmt.Fprintf(out, "  holdings %s  %s\n", o.Address, money(o.Value))
		}
		fmt.Fprintf(out, "  on-chain %s | gold %s | holdings %s | total %s",
			money(s.Record.OnChainBalance), money(s.Record.SecondaryBalance),
			money(s.Record.HoldingValue), money(s.Record.TotalValue))
		if s.Change != nil {
			fmt.Fprintf(out, " | %+.2f%% since %s", s.Change.Percent, s.Change.Reference.Timestamp.Format("01-02 15:04"))
		}
		fmt.Fprintln(out)
	}
}

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}
