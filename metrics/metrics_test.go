package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	ff "github.com/Andrej220/go-utils/fastflow"
)

func TestScrapeFormat(t *testing.T) {
	c := NewCounter("test_completed", "")
	e := NewExporter(c)

	want := "# TYPE test_completed counter\ntest_completed 0\n"
	if got := e.Scrape(); got != want {
		t.Fatalf("Scrape = %q; want %q", got, want)
	}
}

func TestScrapeIdempotent(t *testing.T) {
	c := NewCounter("idem", "")
	e := NewExporter(c)
	c.IncrementCompleted(4)

	first, second := e.Scrape(), e.Scrape()
	if first != second {
		t.Fatalf("consecutive scrapes differ: %q vs %q", first, second)
	}
	if got := c.Snapshot(); got != 4 {
		t.Fatalf("Snapshot after scrape = %d; want 4", got)
	}
}

func TestScrapeAccumulates(t *testing.T) {
	c := NewCounter("acc", "")
	e := NewExporter(c)
	c.IncrementCompleted(5)
	c.IncrementCompleted(3)

	if got := e.Scrape(); !strings.Contains(got, "\nacc 8\n") {
		t.Fatalf("Scrape = %q; want value 8", got)
	}
}

func TestScrapeLargeValueIsInteger(t *testing.T) {
	c := NewCounter("big", "")
	c.IncrementCompleted(12_345_678_901)

	if got := NewExporter(c).Scrape(); !strings.HasSuffix(got, "big 12345678901\n") {
		t.Fatalf("Scrape = %q; want integer rendering", got)
	}
}

func TestExporterOrdersByName(t *testing.T) {
	e := NewExporter(NewCounter("b_total", ""), NewCounter("a_total", ""))
	e.Add(NewCounter("b_total", "")) // replaces

	want := "# TYPE a_total counter\na_total 0\n# TYPE b_total counter\nb_total 0\n"
	if got := e.Scrape(); got != want {
		t.Fatalf("Scrape = %q; want %q", got, want)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	c := NewCounter("conc", "")
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				c.IncrementCompleted(1)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot(); got != 16000 {
		t.Fatalf("Snapshot = %d; want 16000", got)
	}
}

func TestDefaultCounter(t *testing.T) {
	before := Default.Snapshot()
	IncTasks(2)

	if got := Default.Snapshot(); got != before+2 {
		t.Fatalf("Default = %d; want %d", got, before+2)
	}
	if got := Scrape(); !strings.HasPrefix(got, "# TYPE "+DefaultName+" counter\n") {
		t.Fatalf("Scrape = %q; want %s type line", got, DefaultName)
	}
}

func TestHandler(t *testing.T) {
	c := NewCounter("served", "")
	c.IncrementCompleted(7)
	srv := httptest.NewServer(Handler(NewExporter(c)))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q; want text/plain", ct)
	}

	post, err := http.Post(srv.URL, "text/plain", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d; want 405", post.StatusCode)
	}
}

func TestCounterCollector(t *testing.T) {
	c := NewCounter("collected_total", "help text")
	c.IncrementCompleted(3)

	reg := prometheus.NewRegistry()
	reg.MustRegister(c)

	if got := testutil.ToFloat64(c); got != 3 {
		t.Fatalf("collected value = %v; want 3", got)
	}
	if n, err := testutil.GatherAndCount(reg, "collected_total"); err != nil || n != 1 {
		t.Fatalf("GatherAndCount = (%d, %v); want (1, nil)", n, err)
	}
}

func TestPoolMetricsWithScheduler(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPoolMetrics(reg)
	completed := NewCounter("pool_test_completed", "")

	s, err := ff.NewWithOptions(context.Background(), ff.Options{Workers: 2, Metrics: pm})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(20)
	for range 20 {
		s.Submit(func() {
			defer wg.Done()
			completed.IncrementCompleted(1)
		})
	}
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(pm.executed) != 20 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	s.Shutdown()

	if got := testutil.ToFloat64(pm.submitted); got != 20 {
		t.Fatalf("submitted = %v; want 20", got)
	}
	if got := testutil.ToFloat64(pm.executed); got != 20 {
		t.Fatalf("executed = %v; want 20", got)
	}
	if got := completed.Snapshot(); got != 20 {
		t.Fatalf("completed = %d; want 20", got)
	}
}
