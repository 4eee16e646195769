// Package metrics keeps monotonically increasing counters and renders
// them in the plain-text exposition format scraped by Prometheus.
//
// Counters are not wired to any scheduler. Whoever completes work
// increments the counter.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultName is the metric name of the process-wide completion counter.
const DefaultName = "fastflow_tasks_completed"

// Recorder counts completed tasks. Implementations must be safe for
// concurrent use.
type Recorder interface {
	IncrementCompleted(n uint64)
	Snapshot() uint64
}

// Counter is a named, monotonically increasing counter. The zero value
// has an empty name; use NewCounter.
type Counter struct {
	name string
	help string
	v    atomic.Uint64
}

var _ Recorder = (*Counter)(nil)
var _ prometheus.Collector = (*Counter)(nil)

// NewCounter returns a counter starting at zero.
func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help}
}

func (c *Counter) Name() string { return c.name }

// IncrementCompleted adds n to the counter.
func (c *Counter) IncrementCompleted(n uint64) { c.v.Add(n) }

// Snapshot returns the current value without resetting it.
func (c *Counter) Snapshot() uint64 { return c.v.Load() }

// Describe implements prometheus.Collector.
func (c *Counter) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc()
}

// Collect implements prometheus.Collector.
func (c *Counter) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc(), prometheus.CounterValue, float64(c.Snapshot()))
}

func (c *Counter) desc() *prometheus.Desc {
	return prometheus.NewDesc(c.name, c.help, nil, nil)
}

// Default is the process-wide completion counter. It lives as long as
// the process and starts at zero.
var Default = NewCounter(DefaultName, "Number of tasks reported as completed.")

var defaultExporter = NewExporter(Default)

// IncTasks adds n to Default.
func IncTasks(n uint64) { Default.IncrementCompleted(n) }

// Scrape renders Default in exposition format.
func Scrape() string { return defaultExporter.Scrape() }
