// Package wordcount counts whitespace separated words, either in one
// pass or as a map/reduce over a worker pool.
package wordcount

import (
	"context"
	"sort"
	"strings"

	ff "github.com/Andrej220/go-utils/fastflow"
	"github.com/Andrej220/go-utils/fastflow/metrics"
)

// WordCount is one entry of a ranked result.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Count tallies lowercased whitespace separated tokens of text.
func Count(text string) map[string]int {
	counts := make(map[string]int)
	addLine(counts, text)
	return counts
}

func addLine(counts map[string]int, line string) {
	for _, w := range strings.Fields(line) {
		counts[strings.ToLower(w)]++
	}
}

// Merge adds every count in src to dst.
func Merge(dst, src map[string]int) {
	for w, n := range src {
		dst[w] += n
	}
}

// Top returns the n most frequent words, ties broken alphabetically.
// n <= 0 returns every word.
func Top(counts map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Sorted returns every word ordered alphabetically.
func Sorted(counts map[string]int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// CountParallel maps each line to a partial count in its own task on sub
// and reduces the partials. rec, if not nil, is incremented once per
// finished task.
//
// The pool gives no completion signal, so each task reports back on a
// channel. If ctx ends before every task has reported, CountParallel
// returns the partial result with ctx.Err().
func CountParallel(ctx context.Context, sub ff.Submitter, lines []string, rec metrics.Recorder) (map[string]int, error) {
	partials := make(chan map[string]int, len(lines))
	for _, line := range lines {
		sub.Submit(func() {
			counts := make(map[string]int)
			addLine(counts, line)
			partials <- counts
			if rec != nil {
				rec.IncrementCompleted(1)
			}
		})
	}

	total := make(map[string]int)
	for range lines {
		select {
		case p := <-partials:
			Merge(total, p)
		case <-ctx.Done():
			return total, ctx.Err()
		}
	}
	return total, nil
}
