package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers wizard activity outside of submissions.
type Metrics struct {
	SessionsStarted    prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	FilesAttached      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_sessions_started_total",
			Help: "Onboarding sessions created",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_validation_failures_total",
			Help: "Field validation failures reported to applicants",
		}, []string{"field"}),
		FilesAttached: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_files_attached_total",
			Help: "Uploads stored for a session by slot",
		}, []string{"slot"}),
	}
}

func (m *Metrics) IncSessionsStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// ObserveValidation counts every failing field of errs.
func (m *Metrics) ObserveValidation(fields []string) {
	if m == nil {
		return
	}
	for _, f := range fields {
		m.ValidationFailures.WithLabelValues(f).Inc()
	}
}

func (m *Metrics) IncFilesAttached(slot string) {
	if m == nil {
		return
	}
	m.FilesAttached.WithLabelValues(slot).Inc()
}
