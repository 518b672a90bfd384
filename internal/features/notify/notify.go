package notify

// Notifications are best effort: a failing channel is logged and counted,
// never reported back to the caller.

import (
	"context"

	"fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/metrics"

	"go.uber.org/zap"
)

type Notifier interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Dispatch sends msg through every notifier and returns how many succeeded.
func Dispatch(ctx context.Context, msg Message, notifiers ...Notifier) int {
	sent := 0
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, msg); err != nil {
			metrics.NotificationErrors.WithLabelValues(n.Name()).Inc()
			log.LogWarn("Notification dropped",
				zap.String("channel", n.Name()),
				zap.String("portfolio", msg.Portfolio),
				zap.Error(err))
			continue
		}
		sent++
		metrics.NotificationsSent.WithLabelValues(n.Name()).Inc()
		log.LogInfo("Notification sent", zap.String("channel", n.Name()), zap.String("portfolio", msg.Portfolio))
	}
	return sent
}
