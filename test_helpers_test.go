package fastflow_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	ff "github.com/Andrej220/go-utils/fastflow"
)

func newTestScheduler(t *testing.T, opts ff.Options) *ff.Scheduler {
	t.Helper()

	s, err := ff.NewWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	return s
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

// waitDone fails the test if wg does not finish within timeout.
func waitDone(t *testing.T, timeout time.Duration, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("tasks did not complete before timeout")
	}
}

// shutdownWithin fails the test if fn does not return within timeout.
func shutdownWithin(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("shutdown did not return before timeout")
	}
}
