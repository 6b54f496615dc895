package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ConfirmationsStarted   prometheus.Counter
	ConfirmationsSucceeded prometheus.Counter
	ConfirmationsFailed    *prometheus.CounterVec
	ConfirmationsCanceled  prometheus.Counter
	ConfirmationDuration   prometheus.Histogram
	InterceptorCalls       prometheus.Counter
	InterceptorErrors      prometheus.Counter
	InterceptorDuration    prometheus.Histogram
	HostLaunches           *prometheus.CounterVec
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		ConfirmationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirmations_started_total",
			Help: "Total number of confirmation attempts started",
		}),
		ConfirmationsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirmations_succeeded_total",
			Help: "Total number of confirmation attempts that succeeded",
		}),
		ConfirmationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "confirmations_failed_total",
			Help: "Total number of confirmation attempts that failed, by error type",
		}, []string{"error_type"}),
		ConfirmationsCanceled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirmations_canceled_total",
			Help: "Total number of confirmation attempts canceled by the user",
		}),
		ConfirmationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "confirmation_duration_seconds",
			Help:    "Confirmation attempt duration from start to terminal result in seconds",
			Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
		}),
		InterceptorCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "interceptor_calls_total",
			Help: "Total number of decision service calls",
		}),
		InterceptorErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "interceptor_errors_total",
			Help: "Total number of decision service call errors",
		}),
		InterceptorDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "interceptor_duration_seconds",
			Help:    "Decision service call duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10},
		}),
		HostLaunches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "host_launches_total",
			Help: "Total number of host launches, by launch kind",
		}, []string{"kind"}),
	}
}

// RecordConfirmationStart records a confirmation attempt start
func (m *Metrics) RecordConfirmationStart() {
	m.ConfirmationsStarted.Inc()
}

// RecordConfirmationSucceeded records a successful confirmation
func (m *Metrics) RecordConfirmationSucceeded(duration time.Duration) {
	m.ConfirmationsSucceeded.Inc()
	m.ConfirmationDuration.Observe(duration.Seconds())
}

// RecordConfirmationFailed records a failed confirmation
func (m *Metrics) RecordConfirmationFailed(errorType string, duration time.Duration) {
	m.ConfirmationsFailed.WithLabelValues(errorType).Inc()
	m.ConfirmationDuration.Observe(duration.Seconds())
}

// RecordConfirmationCanceled records a user-canceled confirmation
func (m *Metrics) RecordConfirmationCanceled(duration time.Duration) {
	m.ConfirmationsCanceled.Inc()
	m.ConfirmationDuration.Observe(duration.Seconds())
}

// RecordInterceptorCall records a decision service call
func (m *Metrics) RecordInterceptorCall(duration time.Duration, err error) {
	m.InterceptorCalls.Inc()
	m.InterceptorDuration.Observe(duration.Seconds())
	if err != nil {
		m.InterceptorErrors.Inc()
	}
}

// RecordHostLaunch records a host launch of the given kind
func (m *Metrics) RecordHostLaunch(kind string) {
	m.HostLaunches.WithLabelValues(kind).Inc()
}
