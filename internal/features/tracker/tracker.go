package tracker

// One tracking pass per portfolio: aggregate balances, append the record to
// the portfolio history, compare with yesterday and notify.
// Only history I/O failures make a pass fail; lookups fall back to 0 and
// notifications are best effort.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fdf-monitor/internal/features/balance"
	"fdf-monitor/internal/features/chart"
	"fdf-monitor/internal/features/history"
	"fdf-monitor/internal/features/notify"
	"fdf-monitor/internal/infra/config"
	"fdf-monitor/internal/infra/fs"
	logging "fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/metrics"
	"fdf-monitor/internal/infra/retry"

	"go.uber.org/zap"
)

type Tracker struct {
	Portfolios []config.Portfolio
	OnChain    balance.Source // owner and game wallet token balance
	Holdings   balance.Source // game wallet holdings value
	Retry      retry.Options

	// Notifiers returns the channels for a portfolio with notify enabled.
	Notifiers func(p config.Portfolio) []notify.Notifier

	AlignOnWrite bool
	// ChartDir, when set, gets a PNG per notified portfolio attached to the message.
	ChartDir string

	Now func() time.Time
}

// Summary describes one recorded portfolio.
type Summary struct {
	Portfolio string
	Record    fs.Record
	Owners    balance.Result
	Gold      balance.Result
	Holdings  balance.Result
	Change    *history.Change
	Notified  int
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// RunOnce records every portfolio. A failing portfolio does not stop the
// others; all failures are joined into the returned error.
func (t *Tracker) RunOnce(ctx context.Context) ([]Summary, error) {
	runID := logging.NewRunID()
	logger := logging.RunLogger(runID)
	logger.Info("Tracker run started", zap.Int("portfolios", len(t.Portfolios)))

	var summaries []Summary
	var errs []error
	for _, p := range t.Portfolios {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := time.Now()
		summary, err := t.runPortfolio(ctx, logger, p)
		metrics.RunDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RunErrors.WithLabelValues(p.Name).Inc()
			logging.LogError(fmt.Sprintf("Portfolio %s failed", p.Name), zap.String("run_id", runID), zap.Error(err))
			errs = append(errs, fmt.Errorf("portfolio %s: %w", p.Name, err))
			continue
		}
		summaries = append(summaries, summary)
		logging.LogSuccess(fmt.Sprintf("Portfolio %s recorded $%.2f", p.Name, summary.Record.TotalValue),
			zap.String("run_id", runID),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	}

	return summaries, errors.Join(errs...)
}

func (t *Tracker) runPortfolio(ctx context.Context, logger *zap.Logger, p config.Portfolio) (Summary, error) {
	owners := balance.Aggregate(ctx, t.OnChain, p.Owners, t.Retry)
	gold := balance.Aggregate(ctx, t.OnChain, p.GameWallets, t.Retry)
	holdings := balance.Aggregate(ctx, t.Holdings, p.GameWallets, t.Retry)
	// an interrupted pass would record zeros, so nothing is written
	if err := ctx.Err(); err != nil {
		return Summary{}, fmt.Errorf("interrupted before recording: %w", err)
	}

	now := t.now()
	ts := now
	if t.AlignOnWrite {
		ts = history.AlignToHour(ts)
	}

	rec := fs.NewRecord(ts, owners.Total, gold.Total, holdings.Total)
	store := fs.NewHistoryStore(p.HistoryFile)
	if err := store.Append(rec); err != nil {
		return Summary{}, err
	}
	metrics.PortfolioTotal.WithLabelValues(p.Name).Set(rec.TotalValue)
	logger.Info("Record appended",
		zap.String("portfolio", p.Name),
		zap.String("file", p.HistoryFile),
		zap.Float64("on_chain", rec.OnChainBalance),
		zap.Float64("secondary", rec.SecondaryBalance),
		zap.Float64("holding", rec.HoldingValue),
		zap.Float64("total", rec.TotalValue))

	summary := Summary{Portfolio: p.Name, Record: rec, Owners: owners, Gold: gold, Holdings: holdings}
	if !p.Notify {
		return summary, nil
	}

	records, err := store.ReadAll()
	if err != nil {
		return summary, fmt.Errorf("read history for comparison: %w", err)
	}
	if change, ok := history.SinceYesterday(records, now, rec.TotalValue); ok {
		summary.Change = &change
	}

	msg := notify.BuildMessage(p.Name, rec, summary.Change)
	if t.ChartDir != "" {
		path := filepath.Join(t.ChartDir, strings.ToLower(p.Name)+".png")
		if _, err := chart.RenderHistory(records, p.Name, path); err != nil {
			logger.Warn("Chart skipped", zap.String("portfolio", p.Name), zap.Error(err))
		} else {
			msg.ChartPath = path
		}
	}

	if t.Notifiers != nil {
		summary.Notified = notify.Dispatch(ctx, msg, t.Notifiers(p)...)
	}
	return summary, nil
}
