// Package retry runs fallible operations with bounded attempts.
//
// The helpers never touch a scheduler. Wrap a task body with Task to
// retry inside a worker.
package retry

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

const (
	defaultAttempts     = 3
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// Do calls op up to attempts times, sleeping backoff between failures.
//
// It returns on the first success. After the last failed attempt it
// returns that attempt's error unchanged, without sleeping. attempts
// below 1 is treated as 1: op is always called at least once.
func Do[T any](op func() (T, error), attempts int, backoff time.Duration) (T, error) {
	return DoContext(context.Background(), op, attempts, backoff)
}

// DoContext is Do with cancellation. If ctx ends while waiting between
// attempts, DoContext returns ctx.Err().
func DoContext[T any](ctx context.Context, op func() (T, error), attempts int, backoff time.Duration) (T, error) {
	return run(ctx, op, attempts, func() time.Duration { return backoff })
}

// Policy describes how many times and how often an operation is retried
// with jittered exponential backoff.
// Zero values are treated as "use defaults".
type Policy struct {
	// Attempts is the maximum number of tries.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// DefaultPolicy returns the policy used for zero fields.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: defaultAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.Initial <= 0 {
		p.Initial = def.Initial
	}
	if p.Max <= 0 {
		p.Max = def.Max
	}
	return p
}

// DoPolicy retries op according to p.
func DoPolicy[T any](ctx context.Context, op func() (T, error), p Policy) (T, error) {
	p = p.withDefaults()
	bo := boff.New(p.Initial, p.Max, time.Now().UnixNano())
	return run(ctx, op, p.Attempts, bo.Next)
}

func run[T any](ctx context.Context, op func() (T, error), attempts int, next func() time.Duration) (T, error) {
	logger := lg.FromContext(ctx)

	for attempt := 1; ; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if attempt >= attempts {
			return v, err
		}

		delay := next()
		logger.Warn("attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		if delay <= 0 {
			if err := ctx.Err(); err != nil {
				var zero T
				return zero, err
			}
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Task adapts a fallible body into a func() suitable for submission to a
// worker pool. The final error, if any, is passed to onErr.
func Task(fn func() error, attempts int, backoff time.Duration, onErr func(error)) func() {
	return func() {
		_, err := Do(func() (struct{}, error) {
			return struct{}{}, fn()
		}, attempts, backoff)
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
}
