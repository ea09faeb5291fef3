// Package jobs runs scheduled background tasks of the dispatch service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"service-dispatch/internal/logx"
)

// DefaultReconcileSchedule runs the reconciliation every 15 seconds.
const DefaultReconcileSchedule = "*/15 * * * * *"

// Reconciler re-enters the phase of orders left without a decision window.
type Reconciler interface {
	Reconcile(ctx context.Context) int
}

// ReconcileJob periodically recovers orders whose window could not be scheduled.
type ReconcileJob struct {
	target   Reconciler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   logx.Logger
}

// NewReconcileJob creates the job. An empty schedule uses DefaultReconcileSchedule.
func NewReconcileJob(target Reconciler, schedule string, logger logx.Logger) *ReconcileJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &ReconcileJob{
		target:   target,
		schedule: schedule,
		timeout:  10 * time.Second,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(logx.String("component", "reconcile_job")),
	}
}

// Start registers the job and starts the scheduler.
func (j *ReconcileJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.RunOnce); err != nil {
		return fmt.Errorf("reconcile schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	j.logger.Info("reconcile job started", logx.String("schedule", j.schedule))
	return nil
}

// RunOnce performs a single reconciliation pass.
func (j *ReconcileJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if n := j.target.Reconcile(ctx); n > 0 {
		j.logger.Info("reconcile pass recovered orders", logx.Int("orders", n))
	}
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *ReconcileJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("reconcile job stopped")
}
