package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsSet struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	appErrors *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	endpoints prometheus.Histogram
}

func newMetricsSet(reg *prometheus.Registry) *metricsSet {
	m := &metricsSet{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mihomo_override_http_requests_total",
			Help: "HTTP requests by ServeMux pattern and status.",
		}, []string{"pattern", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mihomo_override_http_request_duration_seconds",
			Help:    "HTTP request latency by ServeMux pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pattern"}),
		appErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mihomo_override_app_errors_total",
			Help: "Application errors returned to clients.",
		}, []string{"stage", "code"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mihomo_override_subscription_fetches_total",
			Help: "Subscription lookups by result (hit, miss, error).",
		}, []string{"result"}),
		endpoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mihomo_override_convert_endpoints",
			Help:    "Endpoints per successful conversion.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.appErrors, m.fetches, m.endpoints)
	return m
}

func (m *metricsSet) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metricsSet) appError(stage, code string) {
	if stage == "" {
		stage = "(unknown)"
	}
	if code == "" {
		code = "(unknown)"
	}
	m.appErrors.WithLabelValues(stage, code).Inc()
}
