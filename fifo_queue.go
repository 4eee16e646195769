package fastflow

import (
	"sync"

	"github.com/eapache/queue"
)

// taskQueue is a mutex-guarded FIFO of pending tasks.
//
// The backing ring buffer grows on demand, so with capacity <= 0 the queue
// is unbounded: a producer that outpaces the workers grows memory without
// limit. With capacity > 0, push either waits on notFull or fails with
// ErrQueueFull. No lock is ever held while a task runs.
type taskQueue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	buf      *queue.Queue
	capacity int
	closed   bool
}

func newTaskQueue(capacity int) *taskQueue {
	q := &taskQueue{
		buf:      queue.New(),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// push appends t at the tail and returns the queue length after the insert.
//
// If the queue is bounded and full, push waits for space when wait is true
// and returns ErrQueueFull otherwise. A closed queue rejects every push
// with ErrClosed, including pushes that were waiting for space.
func (q *taskQueue) push(t Task, wait bool) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.closed {
			return q.buf.Length(), ErrClosed
		}
		if q.capacity <= 0 || q.buf.Length() < q.capacity {
			break
		}
		if !wait {
			return q.buf.Length(), ErrQueueFull
		}
		q.notFull.Wait()
	}

	q.buf.Add(t)
	return q.buf.Length(), nil
}

// pop removes the head of the queue. It never blocks; ok is false when
// the queue is empty.
func (q *taskQueue) pop() (t Task, n int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.buf.Length() == 0 {
		return nil, 0, false
	}
	t = q.buf.Remove().(Task)
	if q.capacity > 0 {
		q.notFull.Signal()
	}
	return t, q.buf.Length(), true
}

// Len returns the number of tasks waiting in the queue.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length()
}

// close marks the queue closed and drops everything still pending.
// Producers blocked on a full queue are released with ErrClosed.
func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for q.buf.Length() > 0 {
		q.buf.Remove()
	}
	q.notFull.Broadcast()
}
