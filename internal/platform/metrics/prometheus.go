package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the custom Prometheus metrics of the service.
type MetricsManager struct {
	Registry *prometheus.Registry

	RegistrationsTotal *prometheus.CounterVec   // by outcome
	UploadsTotal       *prometheus.CounterVec   // by kind and result
	AuthAttemptsTotal  *prometheus.CounterVec   // by flow and result
	GeocodeTotal       *prometheus.CounterVec   // by direction and result
	HTTPLatency        *prometheus.HistogramVec // by route and method
}

func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		RegistrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "registrations_total",
			Help:      "Business registration submissions by outcome.",
		}, []string{"outcome"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "media_uploads_total",
			Help:      "Media uploads by kind and result.",
		}, []string{"kind", "result"}),
		AuthAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by flow and result.",
		}, []string{"flow", "result"}),
		GeocodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by direction and result.",
		}, []string{"direction", "result"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	registry.MustRegister(
		m.RegistrationsTotal,
		m.UploadsTotal,
		m.AuthAttemptsTotal,
		m.GeocodeTotal,
		m.HTTPLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry for scraping.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
