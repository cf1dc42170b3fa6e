// Package worker drains prefetch jobs and warms the details cache.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/mq/queue"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

const (
	defaultWorkerCount  = 2
	defaultJobTimeout   = 15 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Warmer performs the work behind one job, typically a details lookup whose
// result lands in a cache.
type Warmer interface {
	Warm(ctx context.Context, catalogID int64) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run blocks until ctx is canceled, Shutdown is called, or the queue closes.
	Run(ctx context.Context)

	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a Queue.
type InMemoryWorker struct {
	queue      Queue
	warmer     Warmer
	name       string
	jobTimeout time.Duration
	active     *atomic.Int64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with the given options applied.
func NewInMemoryWorker(q Queue, w Warmer, opts ...Option) *InMemoryWorker {
	wk := &InMemoryWorker{
		queue:      q,
		warmer:     w,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		active:     &atomic.Int64{},
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(wk)
	}
	wk.logger = wk.logger.Named(wk.name)
	return wk
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
			if err := w.process(ctx, job); err != nil {
				w.logger.Warn(ctx, "prefetch failed",
					logger.Int64("tmdbId", job.CatalogID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the loop and waits for the in-flight job.
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

func (w *InMemoryWorker) process(ctx context.Context, job Job) error {
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	if err := w.warmer.Warm(jobCtx, job.CatalogID); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "warm_failed")
		return fmt.Errorf("warm %d: %w", job.CatalogID, err)
	}
	w.logger.Debug(ctx, "prefetched", logger.Int64("tmdbId", job.CatalogID), logger.String("query", job.Query))
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	wg      conc.WaitGroup
	logger  logger.Logger
}

// NewPool creates workerCount workers. A count below 1 uses the default.
func NewPool(workerCount int, q Queue, w Warmer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Discard(),
	}
	active := &atomic.Int64{}
	for i := range p.workers {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)), withActiveCounter(active))
		p.workers[i] = NewInMemoryWorker(q, w, wopts...)
	}
	shared := &InMemoryWorker{logger: p.logger}
	for _, opt := range opts {
		opt(shared)
	}
	p.logger = shared.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, wk := range p.workers {
		wk := wk
		p.wg.Go(func() { wk.Run(ctx) })
	}
	p.logger.Info(ctx, "prefetch workers started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue, stops the workers, and waits for them to exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, wk := range p.workers {
		if err := wk.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr == nil {
		p.wg.Wait()
	}
	return firstErr
}
