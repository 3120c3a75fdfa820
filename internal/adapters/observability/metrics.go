package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourguide/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourguide", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tourguide", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourguide", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tourguide", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourguide", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	ScoringCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourguide", Name: "scoring_calls_total", Help: "Reward scoring calls by outcome."},
		[]string{"outcome", "reason"}, // reason: see LabelErr
	)
	ScoringLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tourguide", Name: "scoring_duration_seconds",
			Help:    "Reward scoring call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	DispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tourguide", Name: "dispatch_duration_seconds",
			Help:    "Duration of one reward dispatch (selection, scoring and ledger insert).",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	RewardsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "tourguide", Name: "rewards_added_total", Help: "Rewards inserted into user ledgers."},
	)
	PoolInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "tourguide", Name: "worker_pool_in_flight", Help: "Tasks currently holding a worker slot."},
	)
	TrackedUsers = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourguide", Name: "tracked_users_total", Help: "User tracking attempts by outcome."},
		[]string{"outcome"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
		ScoringCalls, ScoringLatency, DispatchLatency, RewardsAdded, PoolInFlight, TrackedUsers)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveScoring(err error, dur time.Duration) {
	ScoringCalls.WithLabelValues(outcome(err), LabelErr(err)).Inc()
	ScoringLatency.Observe(dur.Seconds())
}

func ObserveDispatch(err error, added int, dur time.Duration) {
	DispatchLatency.WithLabelValues(outcome(err)).Observe(dur.Seconds())
	RewardsAdded.Add(float64(added))
}

func ObserveTracked(err error) {
	TrackedUsers.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// LabelErr maps an error to a bounded label value.
func LabelErr(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "auth"
	default:
		return "other"
	}
}
