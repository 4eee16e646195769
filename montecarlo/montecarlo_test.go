package montecarlo

import (
	"context"
	"reflect"
	"testing"
	"time"

	ff "github.com/Andrej220/go-utils/fastflow"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		n, parts int
		want     []int
	}{
		{10, 3, []int{4, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{2, 4, []int{1, 1, 0, 0}},
	}
	for _, tc := range tests {
		if got := Split(tc.n, tc.parts); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Split(%d, %d) = %v; want %v", tc.n, tc.parts, got, tc.want)
		}
	}
}

func TestHitsDeterministic(t *testing.T) {
	if a, b := Hits(1000, 42), Hits(1000, 42); a != b {
		t.Fatalf("Hits not deterministic: %d vs %d", a, b)
	}
}

func TestEstimate(t *testing.T) {
	r := Estimate(200_000, 42)
	if r.AbsError > 0.05 {
		t.Fatalf("estimate %v too far from pi", r.Estimate)
	}
}

func TestEstimateParallelMatchesSequentialParts(t *testing.T) {
	e := ff.NewExecutor(4)
	defer e.MustShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n, parts = 100_000, 4
	r, err := EstimateParallel(ctx, e, n, parts)
	if err != nil {
		t.Fatalf("EstimateParallel: %v", err)
	}

	want := 0
	for i, samples := range Split(n, parts) {
		want += Hits(samples, int64(baseSeed+i))
	}
	if got := 4.0 * float64(want) / float64(n); got != r.Estimate {
		t.Fatalf("Estimate = %v; want %v", r.Estimate, got)
	}
	if r.AbsError > 0.05 {
		t.Fatalf("estimate %v too far from pi", r.Estimate)
	}
	if got := r.PerPartSamples; len(got) != parts || got[0] != n/parts {
		t.Fatalf("PerPartSamples = %v; want %d parts of %d", got, parts, n/parts)
	}
}

func TestEstimateParallelNoSamples(t *testing.T) {
	s := ff.New(1)
	defer s.Shutdown()

	if _, err := EstimateParallel(context.Background(), s, 0, 2); err != ErrNoSamples {
		t.Fatalf("err = %v; want ErrNoSamples", err)
	}
}
