package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/taskboard/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Domain metrics

	TaskMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskboard",
		Name:      "task_mutations_total",
		Help:      "Successful task writes, by operation.",
	}, []string{"op"})

	AuthEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskboard",
		Name:      "auth_events_total",
		Help:      "Register/login attempts, by outcome.",
	}, []string{"event", "outcome"})

	AuthRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskboard",
		Name:      "auth_rejections_total",
		Help:      "Requests to protected endpoints rejected with 401, by reason.",
	}, []string{"reason"})

	RateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskboard",
		Name:      "rate_limited_total",
		Help:      "Requests refused with 429, by route.",
	}, []string{"path"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskboard",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskboard",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		TaskMutationsTotal,
		AuthEventsTotal,
		AuthRejectionsTotal,
		RateLimitedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

type prober interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

// NewServer serves /metrics plus the liveness and readiness probes on a port
// separate from the public API.
func NewServer(addr string, checker prober) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
