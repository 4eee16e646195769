package fastflow

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is the poll loop run by each worker goroutine:
// check the stop flag, pop one task, run it, or idle until woken.
func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	if s.opts.LockOSThread || s.opts.PinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	if s.opts.PinWorkers {
		cpu := id % runtime.NumCPU()
		if err := PinToCPU(cpu); err != nil {
			s.reportInternalError(fmt.Errorf("fastflow: pin worker %d to cpu %d: %w", id, cpu, err))
		}
	}

	timer := time.NewTimer(s.opts.PollInterval)
	timer.Stop()
	defer timer.Stop()

	for {
		if s.stopped.Load() {
			return
		}
		if task, n, ok := s.queue.pop(); ok {
			s.metrics.SetQueued(n)
			s.runTask(id, task)
			continue
		}
		s.idle(timer)
	}
}

// idle parks the worker until a submission wakes it, shutdown starts,
// or the poll interval passes.
func (s *Scheduler) idle(timer *time.Timer) {
	timer.Reset(s.opts.PollInterval)
	select {
	case <-s.wake:
	case <-s.stopCh:
	case <-timer.C:
	}
	timer.Stop()
}

// runTask executes one task inside a failure boundary so a panic never
// takes the worker down with it. A task that ends its goroutine with
// runtime.Goexit cannot be stopped from taking the worker along, so a
// replacement worker is started under the same id.
func (s *Scheduler) runTask(id int, task Task) {
	s.active.Add(1)
	defer s.active.Add(-1)

	returned := false
	defer func() {
		if r := recover(); r != nil {
			s.metrics.IncPanicked()
			lg.FromContext(s.ctx).Error("task panicked", lg.Any("panic", r))
			s.reportTaskPanic(&PanicError{Value: r, Stack: debug.Stack()})
			return
		}
		if !returned {
			s.metrics.IncPanicked()
			lg.FromContext(s.ctx).Error("task exited its worker", lg.Int("worker", id))
			s.reportInternalError(fmt.Errorf("%w (worker %d)", ErrTaskExited, id))
			s.wg.Add(1)
			go s.worker(id)
			return
		}
		s.metrics.IncExecuted()
	}()
	task()
	returned = true
}
