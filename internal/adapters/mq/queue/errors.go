package queue

import "errors"

// ErrQueueFull is returned by callers that surface a rejected Enqueue.
var ErrQueueFull = errors.New("prefetch queue full")
