package jobs

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeReconciler struct {
	reports []match.ReconcileReport
	err     error
	calls   atomic.Int32
}

func (f *fakeReconciler) ReconcileLive(context.Context) ([]match.ReconcileReport, error) {
	f.calls.Add(1)
	return f.reports, f.err
}

func TestRunOnceCountsDrift(t *testing.T) {
	rec := &fakeReconciler{reports: []match.ReconcileReport{
		{MatchID: 1, InningsID: 1},
		{MatchID: 2, InningsID: 3, Drift: true, Issues: []string{"runs stored 99, ball log 9"}},
		{MatchID: 4, InningsID: 7, Drift: true},
	}}
	job := NewReconcileJob(rec, "@every 5m", quietLogger())

	assert.Equal(t, 2, job.RunOnce(context.Background()))
	assert.EqualValues(t, 1, rec.calls.Load())
}

func TestRunOnceSurvivesErrors(t *testing.T) {
	job := NewReconcileJob(&fakeReconciler{err: errors.New("db gone")}, "@every 5m", quietLogger())
	assert.Zero(t, job.RunOnce(context.Background()))
}

func TestStartStop(t *testing.T) {
	rec := &fakeReconciler{}
	job := NewReconcileJob(rec, "@every 1s", quietLogger())

	require.NoError(t, job.Start())
	assert.Error(t, job.Start(), "second start is rejected")

	require.Eventually(t, func() bool { return rec.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	job.Stop()
	job.Stop()
}

func TestInvalidSchedule(t *testing.T) {
	job := NewReconcileJob(&fakeReconciler{}, "every so often", quietLogger())
	assert.ErrorContains(t, job.Start(), "every so often")
}
