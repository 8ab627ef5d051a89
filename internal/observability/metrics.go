package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	checksTotal           *prometheus.CounterVec
	checkLatencySeconds   prometheus.Histogram
	webSearchQueriesTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		checksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plagiarism_checks_total",
			Help: "Total number of plagiarism checks by outcome.",
		}, []string{"result"})

		checkLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "plagiarism_check_duration_seconds",
			Help:    "End-to-end duration of plagiarism checks.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		})

		webSearchQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "web_search_queries_total",
			Help: "Total number of web corroboration queries by outcome.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			checksTotal,
			checkLatencySeconds,
			webSearchQueriesTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// Checks exposes the counter for plagiarism check outcomes.
func Checks() *prometheus.CounterVec {
	RegisterMetrics()
	return checksTotal
}

// CheckLatency exposes the duration histogram for plagiarism checks.
func CheckLatency() prometheus.Histogram {
	RegisterMetrics()
	return checkLatencySeconds
}

// WebSearchQueries exposes the counter for web corroboration queries.
func WebSearchQueries() *prometheus.CounterVec {
	RegisterMetrics()
	return webSearchQueriesTotal
}
