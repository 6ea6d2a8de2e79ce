package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/glowstock/glowstock/internal/dashboard"
)

// ExpiryScanJob rebuilds the dashboard snapshot off-peak and logs the alert
// totals so expiring stock shows up in the operational logs, not only in the
// UI.
type ExpiryScanJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewExpiryScanJob wires dependencies for the expiry scan handler.
func NewExpiryScanJob(dashboardSvc *dashboard.Service, logger *slog.Logger) *ExpiryScanJob {
	return &ExpiryScanJob{
		Dashboard: dashboardSvc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskCatalogExpiryScan tasks.
func (j *ExpiryScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("expiry scan: handler not configured")
	}

	logger := j.logger()
	started := j.now()
	logger.Info("starting expiry scan")

	scanCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	snap, err := j.Dashboard.Snapshot(scanCtx)
	if err != nil {
		logger.Error("build snapshot", slog.Any("error", err))
		return err
	}

	expired := 0
	for _, alert := range snap.Alerts.ExpiryAlerts {
		if alert.DaysLeft <= 0 {
			expired++
		}
	}
	logger.Info("completed expiry scan",
		slog.Int("expiry_alerts", len(snap.Alerts.ExpiryAlerts)),
		slog.Int("expired", expired),
		slog.Int("low_stock", len(snap.Alerts.LowStock)),
		slog.Int("out_of_stock", len(snap.Alerts.OutOfStock)),
		slog.Duration("duration", time.Since(started)))
	return nil
}

func (j *ExpiryScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCatalogExpiryScan))
	}
	return slog.Default().With(slog.String("job", TaskCatalogExpiryScan))
}

func (j *ExpiryScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
