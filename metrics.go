package fastflow

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the scheduler to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
//
// These hooks instrument the scheduler itself. Counting completed work
// for exposition is the caller's job (see the metrics package).
type MetricsPolicy interface {
	// IncSubmitted is called once per task accepted into the queue.
	IncSubmitted()

	// IncExecuted is called after a task returned normally.
	IncExecuted()

	// IncPanicked is called after a task panicked and was recovered.
	IncPanicked()

	// IncDropped is called when OverflowDrop discards a task.
	IncDropped()

	// SetQueued publishes the queue length observed after a push or pop.
	SetQueued(n int)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	executed  atomic.Uint64
	panicked  atomic.Uint64
	dropped   atomic.Uint64

	_ [32]byte // padding to avoid false sharing

	queued atomic.Int64
}

func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }
func (m *AtomicMetrics) Executed() uint64  { return m.executed.Load() }
func (m *AtomicMetrics) Panicked() uint64  { return m.panicked.Load() }
func (m *AtomicMetrics) Dropped() uint64   { return m.dropped.Load() }

// Queued returns the last queue length reported by the scheduler.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

func (m *AtomicMetrics) IncSubmitted()   { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()    { m.executed.Add(1) }
func (m *AtomicMetrics) IncPanicked()    { m.panicked.Add(1) }
func (m *AtomicMetrics) IncDropped()     { m.dropped.Add(1) }
func (m *AtomicMetrics) SetQueued(n int) { m.queued.Store(int64(n)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()   {}
func (m *NoopMetrics) IncExecuted()    {}
func (m *NoopMetrics) IncPanicked()    {}
func (m *NoopMetrics) IncDropped()     {}
func (m *NoopMetrics) SetQueued(n int) {}
