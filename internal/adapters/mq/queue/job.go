package queue

import (
	"context"

	"github.com/google/uuid"
)

// Result is what a job returns to its submitter.
type Result struct {
	Value any
	Err   error
}

// Job is one unit of serialized engine work.
type Job struct {
	ID    string
	Name  string
	Run   func(ctx context.Context) (any, error)
	reply chan Result
}

// NewJob creates a job with a fresh id and a reply slot.
func NewJob(name string, run func(ctx context.Context) (any, error)) Job {
	return Job{ID: uuid.NewString(), Name: name, Run: run, reply: make(chan Result, 1)}
}

// Reply returns the channel the job's result is delivered on.
func (j Job) Reply() <-chan Result { return j.reply }

// Complete delivers the result. It never blocks.
func (j Job) Complete(r Result) {
	if j.reply == nil {
		return
	}
	select {
	case j.reply <- r:
	default:
	}
}
