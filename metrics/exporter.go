package metrics

import (
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/common/expfmt"
)

// Exporter renders a set of counters as
//
//	# TYPE <name> counter
//	<name> <integer>
//
// one block per counter, ordered by name. Rendering never resets a value.
type Exporter struct {
	mu       sync.RWMutex
	counters []*Counter
}

func NewExporter(counters ...*Counter) *Exporter {
	e := &Exporter{}
	for _, c := range counters {
		e.Add(c)
	}
	return e
}

// Add registers c. Counters are kept sorted by name; adding a name twice
// replaces the earlier counter.
func (e *Exporter) Add(c *Counter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, found := slices.BinarySearchFunc(e.counters, c.name, func(a *Counter, name string) int {
		return strings.Compare(a.name, name)
	})
	if found {
		e.counters[i] = c
		return
	}
	e.counters = slices.Insert(e.counters, i, c)
}

// WriteTo writes the exposition body to w.
func (e *Exporter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.Scrape())
	return int64(n), err
}

// Scrape returns the exposition body.
func (e *Exporter) Scrape() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var b strings.Builder
	for _, c := range e.counters {
		b.WriteString("# TYPE ")
		b.WriteString(c.name)
		b.WriteString(" counter\n")
		b.WriteString(c.name)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(c.Snapshot(), 10))
		b.WriteByte('\n')
	}
	return b.String()
}

// Handler serves the exporter's body over HTTP.
func Handler(e *Exporter) http.Handler {
	contentType := string(expfmt.NewFormat(expfmt.TypeTextPlain))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = e.WriteTo(w)
	})
}
