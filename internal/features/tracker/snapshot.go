package tracker

import (
	"context"
	"strings"
	"time"

	"fdf-monitor/internal/features/balance"
	"fdf-monitor/internal/infra/config"
	"fdf-monitor/internal/infra/fs"
	logging "fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/retry"

	"go.uber.org/zap"
)

// Snapshotter records a second token's balances of every game wallet,
// grouped by portfolio, into one JSON file that is overwritten each time.
type Snapshotter struct {
	Portfolios []config.Portfolio
	Token      balance.Source
	Retry      retry.Options
	Path       string
	Now        func() time.Time
}

func (s *Snapshotter) Run(ctx context.Context) (fs.TokenSnapshot, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	snap := fs.TokenSnapshot{Timestamp: now, Groups: make(map[string]fs.GroupSnapshot, len(s.Portfolios))}

	for _, p := range s.Portfolios {
		group := fs.GroupSnapshot{Addresses: map[string]float64{}}
		for _, addr := range p.GameWallets {
			v := balance.FetchWithRetry(ctx, s.Token, addr, s.Retry)
			if v > 0 {
				group.Addresses[addr] = v
				group.Total += v
			}
		}
		snap.Groups[strings.ToLower(p.Name)] = group
		logging.LogInfo("Token snapshot group",
			zap.String("portfolio", p.Name),
			zap.String("token", s.Token.Name()),
			zap.Int("holders", len(group.Addresses)),
			zap.Float64("total", group.Total))
	}

	if err := fs.SaveSnapshot(s.Path, snap); err != nil {
		return snap, err
	}
	return snap, nil
}
