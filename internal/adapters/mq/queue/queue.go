// Package queue holds prefetch jobs between the request path and the
// background warmers.
//
// The only implementation is an in-memory bounded channel: jobs are
// best-effort and a full queue drops work instead of blocking a request.
package queue

import (
	"context"
	"sync"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

const defaultQueueCapacity = 256

// Job is the payload flowing through the queue.
type Job = model.PrefetchJob

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns false when the queue is full, closed, or
	// ctx is done.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel that yields jobs until the queue is closed or
	// ctx is done.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of buffered jobs.
	Len() int

	// Close stops accepting jobs. Buffered jobs are still delivered.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with the given options applied.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Enqueue adds a job without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return false
	}
	if ctx.Err() != nil {
		q.reject("context_cancelled")
		return false
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.observe()
		return true
	default:
		q.reject("queue_full")
		return false
	}
}

// Dequeue returns a channel that forwards buffered jobs.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-q.jobs:
				if !ok {
					return
				}
				select {
				case out <- j:
					metrics.RecordQueueDequeue()
					q.observe()
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the number of buffered jobs.
func (q *InMemoryQueue) Len() int {
	q.observe()
	return len(q.jobs)
}

// Close stops the queue. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}

func (q *InMemoryQueue) reject(reason string) {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
}
