package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fdf-monitor/internal/features/tracker"
	"fdf-monitor/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write the snapshot token balances of every game wallet to JSON",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "", "Output file (default <data_dir>/fun_balance.json)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := loadApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	path := snapshotOut
	if path == "" {
		path = filepath.Join(a.cfg.App.DataDir, "fun_balance.json")
	}

	s := &tracker.Snapshotter{
		Portfolios: a.accounts.Portfolios,
		Token:      tokenSource(a.chain, a.cfg.Chain.SnapshotToken),
		Retry:      a.retryOptions(),
		Path:       path,
	}
	snap, err := s.Run(ctx)
	if err != nil {
		log.LogError("Snapshot not saved", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range snap.GroupNames() {
		g := snap.Groups[name]
		fmt.Fprintf(out, "%s: %d wallets, %s %s\n", name, len(g.Addresses), formatAmount(g.Total), s.Token.Name())
	}
	log.LogSuccess("Snapshot saved", zap.String("path", path))
	return nil
}
