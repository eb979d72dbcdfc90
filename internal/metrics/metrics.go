package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "security_panel_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	EndpointCode        = "code"
	EndpointDisarm      = "disarm"
	EndpointAlarmStatus = "alarm_status"
)

var (
	registerOnce sync.Once

	registry *prometheus.Registry

	submissionsTotal *prometheus.CounterVec
	pollsTotal       *prometheus.CounterVec
	disarmTotal      *prometheus.CounterVec
	backendLatency   *prometheus.HistogramVec
)

// Init registers the panel collectors on a dedicated registry.
func Init() {
	registerOnce.Do(func() {
		registry = prometheus.NewRegistry()

		submissionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "submissions_total",
				Help: "Total code submissions by outcome",
			},
			[]string{"outcome"},
		)
		pollsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "polls_total",
				Help: "Total alarm status polls by result",
			},
			[]string{"result"},
		)
		disarmTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "disarm_commands_total",
				Help: "Total disarm commands by result",
			},
			[]string{"result"},
		)
		backendLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "backend_request_latency_seconds",
				Help:    "Backend request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "result"},
		)

		registry.MustRegister(
			submissionsTotal,
			pollsTotal,
			disarmTotal,
			backendLatency,
		)
	})
}

// Handler serves the registered collectors. Init must be called first.
func Handler() http.Handler {
	Init()

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// IncSubmission increments the submission counter for an outcome label.
func IncSubmission(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}

	if submissionsTotal != nil {
		submissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// IncPoll increments the poll counter.
func IncPoll(result string) {
	if result == "" {
		result = resultSuccess
	}

	if pollsTotal != nil {
		pollsTotal.WithLabelValues(result).Inc()
	}
}

// IncDisarm increments the disarm command counter.
func IncDisarm(result string) {
	if result == "" {
		result = resultSuccess
	}

	if disarmTotal != nil {
		disarmTotal.WithLabelValues(result).Inc()
	}
}

// ObserveBackend records the latency of one backend request.
func ObserveBackend(endpoint, result string, duration time.Duration) {
	if endpoint == "" {
		endpoint = "unknown"
	}

	if result == "" {
		result = resultSuccess
	}

	if backendLatency != nil {
		backendLatency.WithLabelValues(endpoint, result).Observe(duration.Seconds())
	}
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return resultError
	}

	return resultSuccess
}
