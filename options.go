package fastflow

import (
	"fmt"
	"time"
)

const (
	// DefaultPollInterval is how long an idle worker waits before it
	// looks at the queue again when no wake-up arrives.
	DefaultPollInterval = time.Millisecond
)

// OverflowPolicy selects what Submit does when a bounded queue is full.
//
// It has no effect on an unbounded queue (Capacity <= 0).
type OverflowPolicy int

const (
	// OverflowBlock makes Submit wait until a worker frees a slot.
	OverflowBlock OverflowPolicy = iota

	// OverflowDrop makes Submit discard the task. The drop is counted
	// through MetricsPolicy.IncDropped.
	OverflowDrop
)

// Options configure a Scheduler.
//
// Zero values are replaced with defaults in FillDefaults. Workers is the
// exception: zero workers is a legal configuration that accepts tasks and
// never runs them.
type Options struct {
	Workers int

	// PollInterval bounds how long an idle worker sleeps between queue
	// checks. Submissions wake idle workers early.
	PollInterval time.Duration

	// Capacity bounds the queue. Zero or negative means unbounded.
	Capacity int
	Overflow OverflowPolicy

	// LockOSThread dedicates one OS thread to each worker.
	LockOSThread bool

	// PinWorkers locks every worker to an OS thread and binds worker i
	// to CPU i modulo the number of CPUs. Linux only.
	PinWorkers bool

	Metrics MetricsPolicy

	// OnTaskPanic receives a *PanicError for every task that panicked.
	OnTaskPanic func(error)

	// OnInternalError receives failures of the scheduler itself, such as
	// a worker that could not be pinned.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Capacity < 0 {
		o.Capacity = 0
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}

// Validate reports option combinations the scheduler cannot honour.
func (o *Options) Validate() error {
	if o.Workers < 0 {
		return fmt.Errorf("fastflow: negative worker count %d", o.Workers)
	}
	switch o.Overflow {
	case OverflowBlock, OverflowDrop:
	default:
		return fmt.Errorf("fastflow: unknown overflow policy %d", o.Overflow)
	}
	return nil
}

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowBlock:
		return "block"
	case OverflowDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy is the inverse of OverflowPolicy.String.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "block":
		return OverflowBlock, nil
	case "drop":
		return OverflowDrop, nil
	default:
		return 0, fmt.Errorf("fastflow: unknown overflow policy %q", s)
	}
}
