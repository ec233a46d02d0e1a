package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call kinds.
const (
	KindRead  = "read"
	KindWrite = "write"
	KindWait  = "wait"
)

// ContractCallMetrics records latency and outcome of rental contract calls.
type ContractCallMetrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
}

// NewContractCallMetrics registers the contract call metrics on reg.
func NewContractCallMetrics(reg prometheus.Registerer) *ContractCallMetrics {
	if reg == nil {
		return &ContractCallMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contract_call_duration_seconds",
		Help:    "Duration of rental contract calls in seconds.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 15, 30, 60, 120},
	}, []string{"method", "kind"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_calls_total",
		Help: "Rental contract calls by outcome.",
	}, []string{"method", "kind", "outcome"})
	reg.MustRegister(duration, calls)
	return &ContractCallMetrics{duration: duration, calls: calls}
}

// Observe records one finished call.
func (c *ContractCallMetrics) Observe(method, kind string, took time.Duration, err error) {
	if c == nil || c.duration == nil {
		return
	}
	method = normalizeLabel(method)
	c.duration.WithLabelValues(method, kind).Observe(took.Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.calls.WithLabelValues(method, kind, outcome).Inc()
}
