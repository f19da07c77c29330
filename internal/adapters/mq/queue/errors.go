package queue

import "errors"

// Sentinel kinds for queue and worker errors.
var (
	ErrStopped = errors.New("worker stopped")
	ErrFull    = errors.New("job queue full")
	ErrClosed  = errors.New("job queue closed")
)
