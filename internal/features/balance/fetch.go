package balance

// Retry-wrapped balance lookups. A lookup that keeps failing is recorded as 0
// so one bad address never stops a run; the failure is only visible in logs
// and metrics.

import (
	"context"
	"errors"

	"fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/metrics"
	"fdf-monitor/internal/infra/retry"

	"go.uber.org/zap"
)

// Source returns the balance of one address in display units.
type Source interface {
	Name() string
	Balance(ctx context.Context, address string) (float64, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc struct {
	Label string
	Fn    func(ctx context.Context, address string) (float64, error)
}

func (s SourceFunc) Name() string { return s.Label }

func (s SourceFunc) Balance(ctx context.Context, address string) (float64, error) {
	return s.Fn(ctx, address)
}

// FetchWithRetry asks src for the balance of address, retrying every failure
// at a fixed interval. It returns 0 when attempts run out or ctx ends.
func FetchWithRetry(ctx context.Context, src Source, address string, opts retry.Options) float64 {
	var value float64
	name := src.Name()

	onFailure := opts.OnFailure
	opts.OnFailure = func(attempt int, err error) {
		metrics.FetchFailures.WithLabelValues(name).Inc()
		log.LogWarn("Balance lookup failed",
			zap.String("source", name),
			zap.String("address", address),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if onFailure != nil {
			onFailure(attempt, err)
		}
	}

	attempts, err := retry.Do(ctx, opts, func(ctx context.Context) error {
		metrics.FetchAttempts.WithLabelValues(name).Inc()
		v, err := src.Balance(ctx, address)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err == nil {
		return value
	}

	metrics.FetchExhausted.WithLabelValues(name).Inc()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.LogWarn("Balance lookup cancelled, recording 0",
			zap.String("source", name), zap.String("address", address), zap.Int("attempts", attempts))
		return 0
	}
	log.LogError("Balance lookup exhausted, recording 0",
		zap.String("source", name),
		zap.String("address", address),
		zap.Int("attempts", attempts),
		zap.Error(err))
	return 0
}
