package schedule

import (
	"context"
	"fmt"
	"time"

	"fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultFallback = 60 * time.Second

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Runner sleeps until the next slot, runs the job, and repeats. Jobs never
// overlap. A failing or panicking job is logged and followed by a Fallback pause.
type Runner struct {
	Schedule cron.Schedule
	Fallback time.Duration
	Now      func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run blocks until ctx is cancelled, which is the only way it returns.
func (r *Runner) Run(ctx context.Context, job Job) error {
	fallback := r.Fallback
	if fallback <= 0 {
		fallback = DefaultFallback
	}

	for {
		now := r.now()
		next := r.Schedule.Next(now)
		wait := next.Sub(now)
		log.LogInfo("Next run scheduled",
			zap.String("at", next.Format("2006-01-02 15:04:05")),
			zap.Duration("in", wait))

		if !sleep(ctx, wait) {
			return nil
		}

		if err := runSafely(ctx, job); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			metrics.SchedulerRuns.WithLabelValues("error").Inc()
			log.LogError("Scheduled run failed", zap.Error(err), zap.Duration("retry_in", fallback))
			if !sleep(ctx, fallback) {
				return nil
			}
			continue
		}
		metrics.SchedulerRuns.WithLabelValues("ok").Inc()
	}
}

func runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
	}()
	return job(ctx)
}

// sleep waits d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
