package fastflow

import (
	"context"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Scheduler owns a task queue, a stop flag and a fixed set of workers.
//
// Workers start in New and run until Shutdown. The worker count never
// changes. A Scheduler cannot be restarted once shut down.
type Scheduler struct {
	ctx  context.Context
	opts Options

	queue   *taskQueue
	metrics MetricsPolicy

	// stopped is the stop flag. stopCh is closed alongside it so idle
	// workers notice without waiting out their poll interval.
	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once

	// wake carries one token per submission to idle workers.
	wake chan struct{}

	wg     sync.WaitGroup
	active atomic.Int32
}

// New starts a scheduler with the given number of workers and default
// options. workers == 0 is legal: tasks are accepted but never run.
// A negative count panics.
func New(workers int) *Scheduler {
	s, err := NewWithOptions(context.Background(), Options{Workers: workers})
	if err != nil {
		panic(err)
	}
	return s
}

// NewWithOptions starts a scheduler configured by opts. The logger is
// taken from ctx.
func NewWithOptions(ctx context.Context, opts Options) (*Scheduler, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.FillDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		ctx:     ctx,
		opts:    opts,
		queue:   newTaskQueue(opts.Capacity),
		metrics: opts.Metrics,
		stopCh:  make(chan struct{}),
		wake:    make(chan struct{}, max(opts.Workers, 1)),
	}

	for i := 0; i < opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	lg.FromContext(ctx).Info("scheduler started",
		lg.Int("workers", opts.Workers),
		lg.Int("capacity", opts.Capacity),
		lg.String("poll_interval", opts.PollInterval.String()),
	)
	return s, nil
}

// Submit enqueues task at the tail of the queue.
//
// Submit has no result. On an unbounded queue it never blocks. On a
// bounded, full queue it follows Options.Overflow. Nil tasks and tasks
// submitted after Shutdown are discarded.
func (s *Scheduler) Submit(task Task) {
	err := s.submit(task, s.opts.Overflow == OverflowBlock)
	switch err {
	case nil, ErrNilTask:
	case ErrQueueFull:
		s.metrics.IncDropped()
	case ErrClosed:
		lg.FromContext(s.ctx).Warn("task submitted after shutdown; discarded")
	}
}

// TrySubmit enqueues task without ever waiting. It returns ErrNilTask,
// ErrQueueFull on a full bounded queue, or ErrClosed after Shutdown.
func (s *Scheduler) TrySubmit(task Task) error {
	return s.submit(task, false)
}

func (s *Scheduler) submit(task Task, wait bool) error {
	if task == nil {
		return ErrNilTask
	}
	if s.stopped.Load() {
		return ErrClosed
	}
	n, err := s.queue.push(task, wait)
	if err != nil {
		return err
	}
	s.metrics.IncSubmitted()
	s.metrics.SetQueued(n)

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Shutdown sets the stop flag and blocks until every worker has exited.
//
// Tasks still in the queue are discarded without being run or reported.
// A task already running completes first. Calling Shutdown again only
// waits for the workers.
func (s *Scheduler) Shutdown() {
	_ = s.ShutdownContext(context.Background())
}

// ShutdownContext is Shutdown with a bounded wait. If ctx ends first the
// stop flag stays set, workers still exit once their current task
// returns, and ctx.Err() is returned.
func (s *Scheduler) ShutdownContext(ctx context.Context) error {
	s.stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()
	select {
	case <-done:
		lg.FromContext(s.ctx).Info("scheduler stopped", lg.Int("workers", s.opts.Workers))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) stop() {
	s.stopOnce.Do(func() {
		// Empty the queue first so no worker can dequeue between the
		// flag flip and the discard.
		s.queue.close()
		s.stopped.Store(true)
		close(s.stopCh)
		s.metrics.SetQueued(0)
	})
}

// Workers returns the fixed number of workers.
func (s *Scheduler) Workers() int { return s.opts.Workers }

// ActiveWorkers returns how many workers are running a task right now.
func (s *Scheduler) ActiveWorkers() int32 { return s.active.Load() }

// QueueLength returns the number of tasks waiting to be dequeued.
func (s *Scheduler) QueueLength() int { return s.queue.Len() }

// Stopped reports whether Shutdown has been requested.
func (s *Scheduler) Stopped() bool { return s.stopped.Load() }
