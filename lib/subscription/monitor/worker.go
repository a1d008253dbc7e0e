package monitor

import (
	"context"
	"time"

	baseworker "intavia-backend/lib/utils/base-worker"
)

func StartWorker(ctx context.Context) {
	i := &worker{
		BaseImpl: *baseworker.NewInstance("SubscriptionMonitorWorker", 60*time.Second, 6*time.Hour),
	}
	go i.Run(ctx, i.handle)
}

type worker struct {
	baseworker.BaseImpl
}

func (w worker) handle(ctx context.Context) {
	logger := w.GetLogger()
	summary := Instance.RunAllChecks(ctx)
	logger.
		WithField("notifications", summary.TotalNotifications).
		WithField("errors", summary.TotalErrors).
		Info("subscription sweep finished")
}
