package fastflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrNotSoleOwner is returned by Executor.Shutdown while other
	// handles to the same scheduler are still alive.
	ErrNotSoleOwner = errors.New("fastflow: executor is shared; release other handles before shutdown")

	// ErrReleased is returned when a released or shut down handle is used.
	ErrReleased = errors.New("fastflow: executor handle released")
)

// Executor is a handle to a Scheduler that may be shared through Clone.
//
// Every live handle keeps the scheduler running. Shutdown is only
// allowed through the last remaining handle; a shared executor refuses
// to shut down rather than leaking workers or stopping them under the
// feet of other owners.
type Executor struct {
	shared *sharedScheduler

	// mu serializes Release and Shutdown on this handle.
	mu       sync.Mutex
	released atomic.Bool
}

type sharedScheduler struct {
	sched *Scheduler
	refs  atomic.Int64
}

// NewExecutor starts a scheduler with default options behind a new handle.
func NewExecutor(workers int) *Executor {
	return newExecutor(New(workers))
}

// NewExecutorWithOptions is NewExecutor with full scheduler options.
func NewExecutorWithOptions(ctx context.Context, opts Options) (*Executor, error) {
	s, err := NewWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newExecutor(s), nil
}

func newExecutor(s *Scheduler) *Executor {
	sh := &sharedScheduler{sched: s}
	sh.refs.Store(1)
	return &Executor{shared: sh}
}

// Submit forwards task to the scheduler. Submitting through a released
// handle is a programming error and panics.
func (e *Executor) Submit(task Task) {
	e.mustLive()
	e.shared.sched.Submit(task)
}

// TrySubmit forwards to Scheduler.TrySubmit.
func (e *Executor) TrySubmit(task Task) error {
	if e.released.Load() {
		return ErrReleased
	}
	return e.shared.sched.TrySubmit(task)
}

// Clone returns another handle to the same scheduler.
func (e *Executor) Clone() *Executor {
	e.mustLive()
	e.shared.refs.Add(1)
	return &Executor{shared: e.shared}
}

// Release gives up this handle. Releasing the last handle shuts the
// scheduler down. Release is idempotent per handle.
func (e *Executor) Release() {
	e.mu.Lock()
	if e.released.Load() {
		e.mu.Unlock()
		return
	}
	e.released.Store(true)
	e.mu.Unlock()

	if e.shared.refs.Add(-1) == 0 {
		e.shared.sched.Shutdown()
	}
}

// Owners returns the number of live handles sharing the scheduler.
func (e *Executor) Owners() int64 { return e.shared.refs.Load() }

// Shutdown stops the scheduler through the sole remaining handle and
// waits for the workers to exit. It fails with ErrNotSoleOwner while
// other handles exist, and with ErrReleased on a dead handle.
func (e *Executor) Shutdown() error {
	e.mu.Lock()
	if e.released.Load() {
		e.mu.Unlock()
		return ErrReleased
	}
	if !e.shared.refs.CompareAndSwap(1, 0) {
		e.mu.Unlock()
		return fmt.Errorf("%w (%d handles)", ErrNotSoleOwner, e.shared.refs.Load())
	}
	e.released.Store(true)
	e.mu.Unlock()

	e.shared.sched.Shutdown()
	return nil
}

// MustShutdown is Shutdown that panics on misuse.
func (e *Executor) MustShutdown() {
	if err := e.Shutdown(); err != nil {
		panic(err)
	}
}

// Scheduler exposes the underlying scheduler for observation.
func (e *Executor) Scheduler() *Scheduler { return e.shared.sched }

func (e *Executor) mustLive() {
	if e.released.Load() {
		panic(ErrReleased)
	}
}
