package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/mq/queue"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/mq/worker"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
)

type mockQueue struct {
	jobs      chan queue.Job
	closeOnce sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.closeOnce.Do(func() { close(mq.jobs) })
	return nil
}

type mockWarmer struct {
	mu     sync.Mutex
	warmed []int64
	fail   map[int64]error
	block  chan struct{}
}

func newMockWarmer() *mockWarmer {
	return &mockWarmer{fail: map[int64]error{}}
}

func (m *mockWarmer) Warm(ctx context.Context, id int64) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[id]; ok {
		return err
	}
	m.warmed = append(m.warmed, id)
	return nil
}

func (m *mockWarmer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warmed)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := newMockQueue()
		warmer := newMockWarmer()
		wk := worker.NewInMemoryWorker(q, warmer, worker.WithName("test-worker"), worker.WithJobTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go wk.Run(ctx)

		convey.Convey("When jobs arrive", func() {
			q.jobs <- model.PrefetchJob{CatalogID: 278, Query: "shawshank"}
			q.jobs <- model.PrefetchJob{CatalogID: 155, Query: "dark knight"}

			convey.Convey("Then each one is warmed in order", func() {
				convey.So(waitFor(func() bool { return warmer.count() == 2 }), convey.ShouldBeTrue)
				warmer.mu.Lock()
				convey.So(warmer.warmed, convey.ShouldResemble, []int64{278, 155})
				warmer.mu.Unlock()
			})
		})

		convey.Convey("When a warm call fails", func() {
			warmer.mu.Lock()
			warmer.fail[1] = errors.New("upstream down")
			warmer.mu.Unlock()
			q.jobs <- model.PrefetchJob{CatalogID: 1}
			q.jobs <- model.PrefetchJob{CatalogID: 2}

			convey.Convey("Then the worker keeps going", func() {
				convey.So(waitFor(func() bool { return warmer.count() == 1 }), convey.ShouldBeTrue)
				warmer.mu.Lock()
				convey.So(warmer.warmed, convey.ShouldResemble, []int64{2})
				warmer.mu.Unlock()
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.So(wk.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then a second shutdown is harmless", func() {
				convey.So(wk.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker that never started", t, func() {
		wk := worker.NewInMemoryWorker(newMockQueue(), newMockWarmer())

		convey.Convey("When shutdown has a short deadline", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			err := wk.Shutdown(ctx)

			convey.Convey("Then it reports the timeout", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerJobTimeout(t *testing.T) {
	convey.Convey("Given a warmer that blocks", t, func() {
		q := newMockQueue()
		warmer := newMockWarmer()
		warmer.block = make(chan struct{})
		wk := worker.NewInMemoryWorker(q, warmer, worker.WithJobTimeout(20*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go wk.Run(ctx)

		convey.Convey("When a job exceeds the timeout", func() {
			q.jobs <- model.PrefetchJob{CatalogID: 9}
			time.Sleep(60 * time.Millisecond)
			close(warmer.block)
			q.jobs <- model.PrefetchJob{CatalogID: 10}

			convey.Convey("Then it is abandoned and the next job still runs", func() {
				convey.So(waitFor(func() bool { return warmer.count() == 1 }), convey.ShouldBeTrue)
				warmer.mu.Lock()
				convey.So(warmer.warmed, convey.ShouldResemble, []int64{10})
				warmer.mu.Unlock()
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool over the in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		warmer := newMockWarmer()

		convey.Convey("When created with a non-positive count", func() {
			pool := worker.NewPool(0, q, warmer)

			convey.Convey("Then it falls back to the default size", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When started and fed jobs", func() {
			pool := worker.NewPool(3, q, warmer)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for i := int64(1); i <= 20; i++ {
				convey.So(q.Enqueue(ctx, model.PrefetchJob{CatalogID: i}), convey.ShouldBeTrue)
			}

			convey.Convey("Then every job is warmed and shutdown drains cleanly", func() {
				convey.So(waitFor(func() bool { return warmer.count() == 20 }), convey.ShouldBeTrue)
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
