package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, model.PrefetchJob{CatalogID: 278, Query: "shawshank"}) {
		t.Fatal("expected enqueue to succeed")
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	select {
	case job := <-q.Dequeue(ctx):
		if job.CatalogID != 278 || job.Query != "shawshank" {
			t.Errorf("unexpected job %+v", job)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, model.PrefetchJob{CatalogID: 1}) || !q.Enqueue(ctx, model.PrefetchJob{CatalogID: 2}) {
		t.Fatal("expected first two enqueues to succeed")
	}
	if q.Enqueue(ctx, model.PrefetchJob{CatalogID: 3}) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_DefaultsAndInvalidOptions(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(0), WithCapacity(-5))
	if q.Capacity() != defaultQueueCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultQueueCapacity, q.Capacity())
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, model.PrefetchJob{CatalogID: 1}) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	const producers, perProducer = 8, 50

	q := NewInMemoryQueue(WithCapacity(32))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		received int
		done     = make(chan struct{})
	)
	for i := 0; i < 4; i++ {
		go func() {
			for range q.Dequeue(ctx) {
				mu.Lock()
				received++
				if received == producers*perProducer {
					close(done)
				}
				mu.Unlock()
			}
		}()
	}

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				job := model.PrefetchJob{CatalogID: int64(p*perProducer + j)}
				for !q.Enqueue(ctx, job) {
					time.Sleep(time.Millisecond)
				}
			}
		}(p)
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumers did not drain the queue")
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, model.PrefetchJob{CatalogID: 1}) || !q.Enqueue(ctx, model.PrefetchJob{CatalogID: 2}) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, model.PrefetchJob{CatalogID: 3}) {
		t.Error("expected enqueue to fail after closing")
	}

	// Buffered jobs drain, then the channel closes.
	var got []int64
	timeout := time.After(time.Second)
	jobs := q.Dequeue(ctx)
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				if len(got) != 2 || got[0] != 1 || got[1] != 2 {
					t.Errorf("expected jobs [1 2], got %v", got)
				}
				if err := q.Close(); err != nil {
					t.Errorf("second close: %v", err)
				}
				return
			}
			got = append(got, job.CatalogID)
		case <-timeout:
			t.Fatal("expected dequeue channel to close")
		}
	}
}
