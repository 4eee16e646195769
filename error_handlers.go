package fastflow

import (
	"fmt"

	lg "github.com/Andrej220/go-utils/zlog"
)

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("fastflow: task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// reportInternalError reports a scheduler failure that is not tied to
// any task. If no handler is registered, the error is silently ignored.
func (s *Scheduler) reportInternalError(err error) {
	if s.opts.OnInternalError != nil {
		s.guardHandler("internal error handler", func() { s.opts.OnInternalError(err) })
	}
}

// reportTaskPanic hands a recovered task panic to the configured handler.
// The worker that ran the task keeps running either way.
func (s *Scheduler) reportTaskPanic(err error) {
	if s.opts.OnTaskPanic != nil {
		s.guardHandler("task panic handler", func() { s.opts.OnTaskPanic(err) })
	}
}

// guardHandler runs a user handler so that a panic inside it is logged
// instead of escaping the worker.
func (s *Scheduler) guardHandler(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(s.ctx).Error(name+" panicked", lg.Any("panic", r))
		}
	}()
	fn()
}
