package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager starts and stops the scheduled jobs of the service together.
type JobManager struct {
	reconciliationJob *DeliveryReconciliationJob
}

// NewJobManager wires the jobs to their dependencies.
func NewJobManager(
	reconciler DeliveryReconciler,
	reconcileSchedule string,
	reconcileMaxAttempts int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob: NewDeliveryReconciliationJob(reconciler, reconcileSchedule, reconcileMaxAttempts, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start delivery reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}
