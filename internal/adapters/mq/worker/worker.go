// Package worker runs queued engine jobs one at a time, so every state
// mutation happens on a single logical thread.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/vstrike/internal/adapters/mq/queue"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/okian/vstrike/pkg/metrics"
)

// Queue is the job source and sink the worker needs.
type Queue interface {
	Enqueue(ctx context.Context, j queue.Job) error
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the running job.
	Shutdown(ctx context.Context) error

	// Submit enqueues fn and waits for its result.
	Submit(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (any, error)
}

// InMemoryWorker is the single consumer of a queue.
type InMemoryWorker struct {
	queue Queue
	name  string

	shutdown     chan struct{}
	done         chan struct{}
	shutdownOnce sync.Once

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			w.process(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Submit runs fn on the worker and returns its result. It returns
// queue.ErrStopped when the worker exits before the job ran.
func (w *InMemoryWorker) Submit(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (any, error) {
	select {
	case <-w.done:
		return nil, queue.ErrStopped
	default:
	}
	job := queue.NewJob(name, fn)
	if err := w.queue.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("submit %s: %w", name, err)
	}
	select {
	case r := <-job.Reply():
		return r.Value, r.Err
	case <-w.done:
		return nil, queue.ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// process runs a job and recovers a panic into an error result.
func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	var res queue.Result
	func() {
		defer func() {
			if p := recover(); p != nil {
				res = queue.Result{Err: fmt.Errorf("job %s panicked: %v", job.Name, p)}
			}
		}()
		v, err := job.Run(ctx)
		res = queue.Result{Value: v, Err: err}
	}()

	metrics.RecordJobLatency(job.Name, float64(time.Since(start).Milliseconds()))
	status := "ok"
	if res.Err != nil {
		status = "error"
		if !errors.Is(res.Err, context.Canceled) {
			metrics.RecordErrorByComponent("worker", job.Name)
		}
		w.logger.Error(ctx, "job failed",
			logger.String("job", job.Name),
			logger.String("jobID", job.ID),
			logger.Error(res.Err),
		)
	}
	metrics.RecordJob(job.Name, status)
	job.Complete(res)
}
