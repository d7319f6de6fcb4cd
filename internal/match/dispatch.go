package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/metrics"
	"github.com/sirupsen/logrus"
)

// dispatcher runs best-effort collaborator calls after a commit. Failures
// and panics are logged and counted; they never reach the caller.
type dispatcher struct {
	wg      sync.WaitGroup
	logger  *logrus.Logger
	metrics metrics.Metrics
	timeout time.Duration

	mu     sync.Mutex
	queues map[uint][]queuedJob
}

type queuedJob struct {
	collaborator string
	fields       logrus.Fields
	fn           func(ctx context.Context) error
}

func newDispatcher(logger *logrus.Logger, m metrics.Metrics, timeout time.Duration) *dispatcher {
	return &dispatcher{logger: logger, metrics: m, timeout: timeout, queues: make(map[uint][]queuedJob)}
}

// Ordered queues fn behind every job already queued for key and returns
// immediately. Jobs for one key run one at a time in enqueue order; a worker
// exists only while its queue is non-empty. fn counts its own failures, so
// an error it returns is only logged.
func (d *dispatcher) Ordered(key uint, collaborator string, fields logrus.Fields, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	pending, running := d.queues[key]
	d.queues[key] = append(pending, queuedJob{collaborator: collaborator, fields: fields, fn: fn})
	if !running {
		go d.drain(key)
	}
}

func (d *dispatcher) drain(key uint) {
	for {
		d.mu.Lock()
		pending := d.queues[key]
		if len(pending) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		job := pending[0]
		d.queues[key] = pending[1:]
		d.mu.Unlock()

		d.runQueued(job)
		d.wg.Done()
	}
}

func (d *dispatcher) runQueued(job queuedJob) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.run(ctx, job.fn); err != nil {
		d.logger.WithFields(job.fields).WithField("collaborator", job.collaborator).
			WithError(err).Error("Collaborator call failed")
	}
}

func (d *dispatcher) Go(collaborator string, fields logrus.Fields, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		log := d.logger.WithFields(fields).WithField("collaborator", collaborator)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.run(ctx, fn); err != nil {
			d.metrics.IncCollaboratorFailures(collaborator)
			log.WithError(err).Error("Collaborator call failed")
			return
		}
		log.Debug("Collaborator call finished")
	}()
}

func (d *dispatcher) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every dispatched call has returned.
func (d *dispatcher) Wait() {
	d.wg.Wait()
}
