package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Toggle outcomes
const (
	OutcomeChecked   = "checked"
	OutcomeUnchecked = "unchecked"
	// A concurrent toggle on the same day got there first
	OutcomeRaced = "raced"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaks_http_requests_total",
			Help: "Total number of HTTP requests by route, method, and status",
		},
		[]string{"route", "method", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streaks_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status_code"},
	)

	// CheckToggles counts check-in toggles by outcome
	CheckToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaks_check_toggles_total",
			Help: "Check-in toggles by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordToggle(outcome string) {
	CheckToggles.WithLabelValues(outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware labels requests with the chi route pattern so ids in paths don't explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		statusCode := strconv.Itoa(wrapped.statusCode)
		httpRequestsTotal.WithLabelValues(route, r.Method, statusCode).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method, statusCode).Observe(time.Since(start).Seconds())
	})
}
