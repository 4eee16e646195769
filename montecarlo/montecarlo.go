// Package montecarlo estimates pi by sampling the unit square, either
// on the calling goroutine or split across a worker pool.
package montecarlo

import (
	"context"
	"errors"
	"math"
	"math/rand"

	ff "github.com/Andrej220/go-utils/fastflow"
)

const baseSeed = 1234

// ErrNoSamples is returned when fewer than one sample is requested.
var ErrNoSamples = errors.New("montecarlo: need at least one sample")

// Result describes one estimate.
type Result struct {
	Samples        int     `json:"samples"`
	Parts          int     `json:"parts"`
	Estimate       float64 `json:"pi_estimate"`
	AbsError       float64 `json:"abs_error"`
	PerPartSamples []int   `json:"per_part_samples,omitempty"`
}

// Hits counts how many of n points drawn with seed fall inside the
// unit quarter circle.
func Hits(n int, seed int64) int {
	rnd := rand.New(rand.NewSource(seed))
	hits := 0
	for range n {
		x, y := rnd.Float64(), rnd.Float64()
		if x*x+y*y <= 1.0 {
			hits++
		}
	}
	return hits
}

// Estimate samples n points on the calling goroutine. n must be positive.
func Estimate(n int, seed int64) Result {
	pi := 4.0 * float64(Hits(n, seed)) / float64(n)
	return Result{Samples: n, Parts: 1, Estimate: pi, AbsError: math.Abs(math.Pi - pi)}
}

// Split divides n samples into parts, spreading the remainder over the
// first parts.
func Split(n, parts int) []int {
	per, rem := n/parts, n%parts
	out := make([]int, parts)
	for i := range out {
		out[i] = per
		if i < rem {
			out[i]++
		}
	}
	return out
}

// EstimateParallel runs one task per part on sub, part i seeded with
// 1234+i, and combines the hits.
func EstimateParallel(ctx context.Context, sub ff.Submitter, n, parts int) (Result, error) {
	if n < 1 {
		return Result{}, ErrNoSamples
	}
	if parts < 1 {
		parts = 1
	}
	tasks := Split(n, parts)

	hits := make(chan int, parts)
	for i, samples := range tasks {
		sub.Submit(func() {
			hits <- Hits(samples, int64(baseSeed+i))
		})
	}

	total := 0
	for range tasks {
		select {
		case h := <-hits:
			total += h
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	pi := 4.0 * float64(total) / float64(n)
	return Result{
		Samples:        n,
		Parts:          parts,
		Estimate:       pi,
		AbsError:       math.Abs(math.Pi - pi),
		PerPartSamples: tasks,
	}, nil
}
