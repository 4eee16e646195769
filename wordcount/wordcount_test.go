package wordcount

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	ff "github.com/Andrej220/go-utils/fastflow"
	"github.com/Andrej220/go-utils/fastflow/metrics"
)

func TestCount(t *testing.T) {
	got := Count("a a b c a b")
	want := map[string]int{"a": 3, "b": 2, "c": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Count = %v; want %v", got, want)
	}
}

func TestCountLowercasesAndSplits(t *testing.T) {
	got := Count("  The the\tTHE\nend  ")
	want := map[string]int{"the": 3, "end": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Count = %v; want %v", got, want)
	}
	if n := len(Count("   ")); n != 0 {
		t.Fatalf("Count(blank) has %d words; want 0", n)
	}
}

func TestTop(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}

	tests := []struct {
		name string
		n    int
		want []WordCount
	}{
		{"two", 2, []WordCount{{"c", 5}, {"a", 2}}},
		{"all", 0, []WordCount{{"c", 5}, {"a", 2}, {"b", 2}, {"d", 1}}},
		{"more than available", 10, []WordCount{{"c", 5}, {"a", 2}, {"b", 2}, {"d", 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Top(counts, tc.n); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Top(%d) = %v; want %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestSorted(t *testing.T) {
	got := Sorted(map[string]int{"b": 1, "a": 2})
	want := []WordCount{{"a", 2}, {"b", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sorted = %v; want %v", got, want)
	}
}

func TestCountParallel(t *testing.T) {
	e := ff.NewExecutor(4)
	defer e.MustShutdown()

	lines := []string{"a a b", "c a", "B c", ""}
	rec := metrics.NewCounter("wc_test_completed", "")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := CountParallel(ctx, e, lines, rec)
	if err != nil {
		t.Fatalf("CountParallel: %v", err)
	}

	want := map[string]int{"a": 3, "b": 2, "c": 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountParallel = %v; want %v", got, want)
	}
	if !reflect.DeepEqual(got, Count("a a b c a B c")) {
		t.Fatal("parallel and sequential counts differ")
	}
	if n := rec.Snapshot(); n != uint64(len(lines)) {
		t.Fatalf("recorded %d completions; want %d", n, len(lines))
	}
}

func TestCountParallelCanceled(t *testing.T) {
	s := ff.New(0) // never runs anything
	defer s.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := CountParallel(ctx, s, []string{"a"}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v; want deadline exceeded", err)
	}
}
