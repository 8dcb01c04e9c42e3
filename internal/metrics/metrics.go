// Package metrics exposes Prometheus instrumentation for the sync engine
// and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contestcal_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contestcal_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contestcal_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	sourceFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contestcal_source_fetch_total",
		Help: "Contest platform fetches by outcome.",
	}, []string{"platform", "result"})

	sourceContests = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "contestcal_source_contests",
		Help: "Upcoming contests returned by the most recent fetch of each platform.",
	}, []string{"platform"})

	userSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contestcal_user_sync_total",
		Help: "Per-user sync passes by result kind.",
	}, []string{"result"})

	userSyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "contestcal_user_sync_duration_seconds",
		Help:    "Histogram of per-user sync latencies.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	remindersAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contestcal_reminders_added_total",
		Help: "Reminder events inserted into user calendars.",
	})

	calendarWriteErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contestcal_calendar_write_errors_total",
		Help: "Calendar lookups or inserts that failed.",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// chi fills the route pattern while routing, so read it afterwards.
			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			statusCode := strconv.Itoa(status)

			httpRequestsTotal.WithLabelValues(r.Method, route).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route, statusCode).Observe(time.Since(start).Seconds())
			if status >= http.StatusInternalServerError {
				httpErrorsTotal.WithLabelValues(r.Method, route, statusCode).Inc()
			}
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSourceFetch records one platform fetch.
func ObserveSourceFetch(platform string, contests int, err error) {
	if err != nil {
		sourceFetchTotal.WithLabelValues(platform, ResultFailure).Inc()
		return
	}
	sourceFetchTotal.WithLabelValues(platform, ResultSuccess).Inc()
	sourceContests.WithLabelValues(platform).Set(float64(contests))
}

// ObserveUserSync records one per-user pass. kind is empty on success.
func ObserveUserSync(kind string, start time.Time) {
	if kind == "" {
		kind = ResultSuccess
	}
	userSyncTotal.WithLabelValues(kind).Inc()
	userSyncDuration.Observe(time.Since(start).Seconds())
}

// AddReminders counts inserted reminder events.
func AddReminders(n int) {
	if n > 0 {
		remindersAddedTotal.Add(float64(n))
	}
}

// ObserveCalendarError counts a failed calendar operation ("lookup" or "insert").
func ObserveCalendarError(operation string) {
	calendarWriteErrorsTotal.WithLabelValues(operation).Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
