package dedupe

import "time"

// Option applies a configuration option to the deduper.
type Option func(*settings)

type settings struct {
	maxSize int
	window  time.Duration
}

// WithMaxSize bounds the number of remembered keys. Values below 1 are ignored.
func WithMaxSize(maxSize int) Option {
	return func(s *settings) {
		if maxSize > 0 {
			s.maxSize = maxSize
		}
	}
}

// WithWindow sets how long a key is remembered. Zero remembers until evicted.
func WithWindow(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.window = d
		}
	}
}
