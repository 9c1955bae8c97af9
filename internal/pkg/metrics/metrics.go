package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes every request served by the dashboard
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fypdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// BackendCallDuration observes calls to the projects backend
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fypdash_backend_call_duration_seconds",
			Help:    "Projects backend call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "endpoint", "status"},
	)

	// UploadCount counts media host uploads by outcome
	UploadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fypdash_upload_total",
			Help: "Total number of file uploads to the media host",
		},
		[]string{"status"},
	)

	// WizardTransitions counts wizard step changes
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fypdash_wizard_transitions_total",
			Help: "Total number of project wizard transitions",
		},
		[]string{"action", "outcome"},
	)

	// ActiveSessions is refreshed from the store on every session sweep
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fypdash_active_sessions",
			Help: "Number of live sessions in the session store",
		},
	)
)

// RecordHTTPRequestDuration records a served request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordBackendCall records a backend call; endpoint is the path template, not the concrete path
func RecordBackendCall(method, endpoint, status string, duration time.Duration) {
	BackendCallDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// IncrementUpload records an upload outcome
func IncrementUpload(status string) {
	UploadCount.WithLabelValues(status).Inc()
}

// IncrementWizardTransition records a wizard action outcome
func IncrementWizardTransition(action, outcome string) {
	WizardTransitions.WithLabelValues(action, outcome).Inc()
}
