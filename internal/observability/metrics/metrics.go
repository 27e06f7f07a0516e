package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "qisma_"

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	sharesComputed  *prometheus.CounterVec
	balanceRequests prometheus.Counter
)

// Init registers the application metrics with the default registry.
// Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_latency_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		)

		sharesComputed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "shares_computed_total",
				Help: "Total share computations by split type",
			},
			[]string{"split_type"},
		)
		balanceRequests = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "balance_requests_total",
				Help: "Total balance aggregation requests",
			},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			sharesComputed,
			balanceRequests,
		)
	})
}

// SharesComputed records one share computation for the given split type
func SharesComputed(splitType string) {
	if sharesComputed == nil {
		return
	}
	sharesComputed.WithLabelValues(splitType).Inc()
}

// BalanceRequested records one balance aggregation
func BalanceRequested() {
	if balanceRequests == nil {
		return
	}
	balanceRequests.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HTTPMiddleware observes request counts and latency per route
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httpRequests == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpLatency.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
