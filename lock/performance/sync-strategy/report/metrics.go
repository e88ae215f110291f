package report

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lockbench"

// Metrics 把结果暴露为 Prometheus 指标，标签为 strategy 和 threads
type Metrics struct {
	nsPerOp *prometheus.GaugeVec
	calls   *prometheus.CounterVec
	lost    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	labels := []string{"strategy", "threads"}
	m := &Metrics{
		nsPerOp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ns_per_op",
			Help:      "Average nanoseconds per increment in the latest iteration.",
		}, labels),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Increment calls issued across all iterations.",
		}, labels),
		lost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lost_updates_total",
			Help:      "Increments not reflected in the final counter value.",
		}, labels),
	}
	reg.MustRegister(m.nsPerOp, m.calls, m.lost)
	return m
}

func (m *Metrics) Write(_ context.Context, r Result) error {
	threads := strconv.Itoa(r.Threads)
	m.nsPerOp.WithLabelValues(r.Strategy, threads).Set(r.NsPerOp)
	m.calls.WithLabelValues(r.Strategy, threads).Add(float64(r.Calls))
	if r.LostUpdates > 0 {
		m.lost.WithLabelValues(r.Strategy, threads).Add(float64(r.LostUpdates))
	}
	return nil
}

func (m *Metrics) Close() error { return nil }
