package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	similarityScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "similarity_score",
			Help:    "Distribution of computed similarity scores.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"metric"},
	)
	similarityOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_outcomes_total",
			Help: "Comparisons by the rule that produced the score.",
		},
		[]string{"metric", "outcome"},
	)
	similarityFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "similarity_faults_total",
			Help: "Requests that ended in a recovered fault.",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordComparison records the score of one comparison and the rule behind it.
func RecordComparison(metric, outcome string, score float64) {
	similarityScore.WithLabelValues(metric).Observe(score)
	similarityOutcomes.WithLabelValues(metric, outcome).Inc()
}

func RecordFault() {
	similarityFaults.Inc()
}

// classifyStatus classifies an HTTP status code into a string.
func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	default:
		return "unknown"
	}
}

var registry = newRegistry()

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(httpRequestsTotal)
	r.MustRegister(httpRequestDuration)
	r.MustRegister(similarityScore)
	r.MustRegister(similarityOutcomes)
	r.MustRegister(similarityFaults)
	return r
}

func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
