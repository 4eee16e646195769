// Package fastflow provides a small in-process task execution facility:
// callers submit closures and a fixed pool of workers runs them
// asynchronously.
//
// Architecture overview
//
// The package is composed of three layers:
//
//  1. Task queue
//     A single FIFO guarded by one mutex. Push appends at the tail,
//     pop removes the head or reports empty without blocking.
//     The queue is unbounded unless Options.Capacity is set.
//
//  2. Workers (Scheduler)
//     A fixed number of goroutines, started by New, each running a
//     poll loop: check the stop flag, pop one task, run it, or idle.
//     An idle worker waits for a submission wake-up or the poll
//     interval, whichever comes first.
//
//  3. Executor
//     A handle over a Scheduler that can be cloned. Only the last
//     remaining handle can shut the scheduler down.
//
// Ordering
//
// Tasks are dequeued in submission order. With a single worker they
// also run in submission order. With more workers, start and finish
// times are not ordered.
//
// Shutdown
//
// Shutdown sets the stop flag and waits for every worker to exit. A
// task that is already running completes. Tasks still queued are
// discarded: they are not run and not reported.
//
// Error handling
//
// Submit has no error result. A task that panics is recovered inside
// its worker and handed to Options.OnTaskPanic as a *PanicError; the
// worker keeps serving the queue. Completion accounting, retries and
// result delivery are left to the task body (see the retry and
// metrics packages).
//
// CPU pinning
//
// On Linux, workers may optionally be pinned to specific CPUs.
// When enabled, workers are locked to OS threads and restricted
// to run on a single CPU core.
package fastflow
