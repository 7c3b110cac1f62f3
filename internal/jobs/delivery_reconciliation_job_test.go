package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"deliverytracker/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, maxAttempts int) (int, int, int) {
	args := m.Called(ctx, maxAttempts)
	return args.Int(0), args.Int(1), args.Int(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeliveryReconciliationJob_RunOnce_PassesMaxAttempts(t *testing.T) {
	ctx := t.Context()
	reconciler := new(MockReconciler)
	reconciler.On("Reconcile", ctx, 7).Return(2, 1, 0).Once()

	job := jobs.NewDeliveryReconciliationJob(reconciler, "*/30 * * * * *", 7, discardLogger())
	job.RunOnce(ctx)

	reconciler.AssertExpectations(t)
}

func TestDeliveryReconciliationJob_Start_InvalidSchedule(t *testing.T) {
	job := jobs.NewDeliveryReconciliationJob(new(MockReconciler), "not a schedule", 5, discardLogger())

	require.Error(t, job.Start())
}

func TestDeliveryReconciliationJob_RunsOnSchedule(t *testing.T) {
	called := make(chan struct{}, 8)
	reconciler := new(MockReconciler)
	reconciler.On("Reconcile", mock.Anything, 5).
		Run(func(mock.Arguments) { called <- struct{}{} }).
		Return(0, 0, 0)

	job := jobs.NewDeliveryReconciliationJob(reconciler, "* * * * * *", 5, discardLogger())
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("reconciliation job did not run")
	}
}

func TestJobManager_StartAllAndStopAll(t *testing.T) {
	reconciler := new(MockReconciler)
	reconciler.On("Reconcile", mock.Anything, mock.Anything).Return(0, 0, 0).Maybe()

	jm := jobs.NewJobManager(reconciler, "*/30 * * * * *", 5, discardLogger())

	require.NoError(t, jm.StartAll())
	assert.NotPanics(t, jm.StopAll)
}

func TestJobManager_StartAll_InvalidSchedule(t *testing.T) {
	jm := jobs.NewJobManager(new(MockReconciler), "bad", 5, discardLogger())

	err := jm.StartAll()

	require.ErrorContains(t, err, "failed to start delivery reconciliation job")
}
