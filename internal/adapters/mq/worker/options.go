package worker

import (
	"sync/atomic"
	"time"

	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithJobTimeout bounds a single Warm call.
func WithJobTimeout(d time.Duration) Option {
	return func(w *InMemoryWorker) {
		if d > 0 {
			w.jobTimeout = d
		}
	}
}

func withActiveCounter(c *atomic.Int64) Option {
	return func(w *InMemoryWorker) { w.active = c }
}
