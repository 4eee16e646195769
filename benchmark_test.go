package fastflow_test

import (
	"runtime"
	"sync"
	"testing"

	ff "github.com/Andrej220/go-utils/fastflow"
)

var cpuWork = func() {
	x := 0
	for i := range 1000 {
		x += i * i
	}
	_ = x
}

func BenchmarkSchedulerSubmit(b *testing.B) {
	for _, workers := range []int{1, runtime.GOMAXPROCS(0)} {
		b.Run(benchName(workers), func(b *testing.B) {
			s := ff.New(workers)
			defer s.Shutdown()

			var wg sync.WaitGroup
			wg.Add(b.N)
			task := func() {
				cpuWork()
				wg.Done()
			}

			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				s.Submit(task)
			}
			wg.Wait()
		})
	}
}

func BenchmarkExecutorParallelSubmit(b *testing.B) {
	e := ff.NewExecutor(runtime.GOMAXPROCS(0))
	defer e.MustShutdown()

	var wg sync.WaitGroup
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			wg.Add(1)
			e.Submit(wg.Done)
		}
	})
	wg.Wait()
}

func benchName(workers int) string {
	if workers == 1 {
		return "workers=1"
	}
	return "workers=gomaxprocs"
}
