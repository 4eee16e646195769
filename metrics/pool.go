package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ff "github.com/Andrej220/go-utils/fastflow"
)

// PoolMetrics exports scheduler instrumentation through client_golang.
// It implements fastflow.MetricsPolicy.
type PoolMetrics struct {
	submitted prometheus.Counter
	executed  prometheus.Counter
	panicked  prometheus.Counter
	dropped   prometheus.Counter
	queued    prometheus.Gauge
}

var _ ff.MetricsPolicy = (*PoolMetrics)(nil)

// NewPoolMetrics registers the pool series with reg.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	f := promauto.With(reg)
	return &PoolMetrics{
		submitted: f.NewCounter(prometheus.CounterOpts{
			Name: "fastflow_pool_submitted_total",
			Help: "Tasks accepted into the queue.",
		}),
		executed: f.NewCounter(prometheus.CounterOpts{
			Name: "fastflow_pool_executed_total",
			Help: "Tasks that returned normally.",
		}),
		panicked: f.NewCounter(prometheus.CounterOpts{
			Name: "fastflow_pool_panicked_total",
			Help: "Tasks that panicked and were recovered.",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "fastflow_pool_dropped_total",
			Help: "Tasks dropped by a full bounded queue.",
		}),
		queued: f.NewGauge(prometheus.GaugeOpts{
			Name: "fastflow_pool_queued",
			Help: "Tasks waiting in the queue.",
		}),
	}
}

func (m *PoolMetrics) IncSubmitted()   { m.submitted.Inc() }
func (m *PoolMetrics) IncExecuted()    { m.executed.Inc() }
func (m *PoolMetrics) IncPanicked()    { m.panicked.Inc() }
func (m *PoolMetrics) IncDropped()     { m.dropped.Inc() }
func (m *PoolMetrics) SetQueued(n int) { m.queued.Set(float64(n)) }
