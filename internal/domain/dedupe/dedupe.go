// Package dedupe suppresses repeated work on the same key within a window.
// The prefetcher uses it so that a popular search does not enqueue the same
// movie over and over.
package dedupe

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it if
	// not. It returns true when key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so that it can be retried, e.g. after the queue
	// rejected the job.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

type lruDeduper struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

// NewInMemoryDeduper creates a bounded deduper; the oldest keys are forgotten
// first and every key is forgotten after the window.
func NewInMemoryDeduper(opts ...Option) Deduper {
	s := settings{maxSize: 10_000, window: 10 * time.Minute}
	for _, opt := range opts {
		opt(&s)
	}
	return &lruDeduper{seen: expirable.NewLRU[string, struct{}](s.maxSize, nil, s.window)}
}

func (d *lruDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(key) {
		return true
	}
	d.seen.Add(key, struct{}{})
	return false
}

func (d *lruDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Remove(key)
}

func (d *lruDeduper) Size() int64 {
	return int64(d.seen.Len())
}
