package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for ops audit tracking.
type Metrics struct {
	Tracked               prometheus.Counter
	Sampled               prometheus.Counter
	Dropped               prometheus.Counter
	CircuitBreakerDropped prometheus.Counter
	PersistFailures       prometheus.Counter
	CircuitBreakerState   prometheus.Gauge
}

// NewMetrics creates and registers the ops audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Tracked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_audit_ops_tracked_total",
			Help: "Total number of operational audit events persisted",
		}),
		Sampled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_audit_ops_sampled_total",
			Help: "Total number of operational audit events dropped by sampling",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_audit_ops_buffer_dropped_total",
			Help: "Total number of operational audit events dropped because the buffer was full",
		}),
		CircuitBreakerDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_audit_ops_circuit_breaker_dropped_total",
			Help: "Total number of operational audit events dropped while the circuit was open",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_audit_ops_persist_failures_total",
			Help: "Total number of operational audit event persistence failures",
		}),
		CircuitBreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "onboarding_audit_ops_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) IncTracked() {
	if m != nil {
		m.Tracked.Inc()
	}
}

func (m *Metrics) IncSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncCircuitBreakerDropped() {
	if m != nil {
		m.CircuitBreakerDropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) SetCircuitBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
