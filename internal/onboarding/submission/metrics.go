package submission

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for document generation.
type Metrics struct {
	// Runs by terminal status
	Submissions *prometheus.CounterVec

	// Template requests by template and result ("success", "mapping_error", "render_error")
	TemplateRequests *prometheus.CounterVec

	TemplateLatency *prometheus.HistogramVec
}

// NewMetrics registers the submission metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_submissions_total",
			Help: "Total document generation runs by outcome",
		}, []string{"outcome"}),

		TemplateRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_template_requests_total",
			Help: "Total template render requests by template and result",
		}, []string{"template", "result"}),

		TemplateLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboarding_template_request_duration_seconds",
			Help:    "Duration of a single template render request including mapping",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"template"}),
	}
}

// IncrementSubmission records a finished run.
func (m *Metrics) IncrementSubmission(status Status) {
	if m != nil {
		m.Submissions.WithLabelValues(string(status)).Inc()
	}
}

// ObserveTemplate records one template request.
func (m *Metrics) ObserveTemplate(template, result string, d time.Duration) {
	if m != nil {
		m.TemplateRequests.WithLabelValues(template, result).Inc()
		m.TemplateLatency.WithLabelValues(template).Observe(d.Seconds())
	}
}
