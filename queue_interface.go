package fastflow

import (
	"errors"
)

var (
	// ErrQueueFull is returned when a bounded queue cannot accept more tasks.
	ErrQueueFull = errors.New("fastflow: queue is full")

	// ErrClosed is returned when a task is submitted after shutdown.
	ErrClosed = errors.New("fastflow: scheduler is shut down")

	// ErrNilTask is returned when a submitted Task is nil.
	ErrNilTask = errors.New("fastflow: task is nil")

	// ErrTaskExited is reported when a task ends its worker goroutine
	// through runtime.Goexit instead of returning.
	ErrTaskExited = errors.New("fastflow: task exited its worker goroutine")
)

// Task is a unit of deferred work. It takes no arguments and returns
// nothing; a task reports its outcome through whatever state it captures.
type Task func()

// Submitter is the narrow surface callers depend on to hand work to a pool.
//
// Submit never blocks on an unbounded queue and never fails. There is no
// way to observe completion through it.
type Submitter interface {
	Submit(task Task)
}

var (
	_ Submitter = (*Scheduler)(nil)
	_ Submitter = (*Executor)(nil)
)
