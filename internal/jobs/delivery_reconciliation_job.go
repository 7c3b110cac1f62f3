package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DeliveryReconciler retries Delivered writes that failed when a tracking
// session completed.
type DeliveryReconciler interface {
	Reconcile(ctx context.Context, maxAttempts int) (delivered, dropped, remaining int)
}

// DeliveryReconciliationJob runs the reconciler on a cron schedule.
type DeliveryReconciliationJob struct {
	reconciler  DeliveryReconciler
	schedule    string
	maxAttempts int
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewDeliveryReconciliationJob creates the job. schedule is a six-field cron
// expression (seconds first).
func NewDeliveryReconciliationJob(
	reconciler DeliveryReconciler,
	schedule string,
	maxAttempts int,
	logger *slog.Logger,
) *DeliveryReconciliationJob {
	return &DeliveryReconciliationJob{
		reconciler:  reconciler,
		schedule:    schedule,
		maxAttempts: maxAttempts,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "delivery_reconciliation_job"),
	}
}

// Start schedules the job. An invalid schedule is returned as an error.
func (j *DeliveryReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery reconciliation job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single reconciliation pass.
func (j *DeliveryReconciliationJob) RunOnce(ctx context.Context) {
	delivered, dropped, remaining := j.reconciler.Reconcile(ctx, j.maxAttempts)
	if delivered == 0 && dropped == 0 && remaining == 0 {
		return
	}

	j.logger.InfoContext(ctx, "Delivery reconciliation pass finished",
		"delivered", delivered,
		"dropped", dropped,
		"remaining", remaining,
	)
}

// Stop stops scheduling and waits for a running pass to return.
func (j *DeliveryReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery reconciliation job stopped")
}
