package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// LiveReconciler audits every in-progress innings against its ball log.
type LiveReconciler interface {
	ReconcileLive(ctx context.Context) ([]match.ReconcileReport, error)
}

// ReconcileJob runs the ball-log audit on a cron schedule. It only reports;
// stored totals are never rewritten.
type ReconcileJob struct {
	reconciler LiveReconciler
	schedule   string
	timeout    time.Duration
	cron       *cron.Cron
	logger     *logrus.Logger

	mu        sync.Mutex
	isRunning bool
}

func NewReconcileJob(reconciler LiveReconciler, schedule string, logger *logrus.Logger) *ReconcileJob {
	return &ReconcileJob{
		reconciler: reconciler,
		schedule:   schedule,
		timeout:    time.Minute,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger,
	}
}

// Start schedules the audit.
func (j *ReconcileJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.isRunning {
		return fmt.Errorf("reconcile job is already running")
	}
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return fmt.Errorf("failed to schedule reconcile job %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.isRunning = true
	j.logger.WithField("schedule", j.schedule).Info("Reconcile job started")
	return nil
}

// Stop waits for a running audit to finish.
func (j *ReconcileJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.isRunning {
		return
	}
	<-j.cron.Stop().Done()
	j.isRunning = false
	j.logger.Info("Reconcile job stopped")
}

func (j *ReconcileJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce audits the live innings and returns how many drifted.
func (j *ReconcileJob) RunOnce(ctx context.Context) int {
	start := time.Now()
	reports, err := j.reconciler.ReconcileLive(ctx)
	if err != nil {
		j.logger.WithError(err).Error("Reconcile audit failed")
		return 0
	}

	drifted := 0
	for _, r := range reports {
		if !r.Drift {
			continue
		}
		drifted++
		j.logger.WithFields(logrus.Fields{
			"match_id":   r.MatchID,
			"innings_id": r.InningsID,
			"issues":     r.Issues,
		}).Warn("Innings totals drifted from the ball log")
	}

	j.logger.WithFields(logrus.Fields{
		"innings":  len(reports),
		"drifted":  drifted,
		"duration": time.Since(start).String(),
	}).Info("Reconcile audit finished")
	return drifted
}
