package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "imagecomposer"

// Outcome labels for renders_total.
const (
	OutcomeSuccess          = "success"
	OutcomeInvalidRequest   = "invalid_request"
	OutcomeDownloadFailed   = "download_failed"
	OutcomeTransportError   = "transport_error"
	OutcomeCompositionError = "composition_failed"
)

type Metrics struct {
	registry *prometheus.Registry

	rendersTotal          *prometheus.CounterVec
	renderDurationSeconds *prometheus.HistogramVec
	downloadBytesTotal    *prometheus.CounterVec
	quoteFailuresTotal    prometheus.Counter
	httpRequestsTotal     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		rendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total number of render requests by route and outcome",
			},
			[]string{"route", "outcome"},
		),
		renderDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of the render pipeline in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route"},
		),
		downloadBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "asset_download_bytes_total",
				Help:      "Bytes downloaded per asset role",
			},
			[]string{"role"},
		),
		quoteFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_fetch_failures_total",
				Help:      "Failed quote service calls",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (m *Metrics) ObserveRender(route, outcome string, d time.Duration) {
	m.rendersTotal.WithLabelValues(route, outcome).Inc()
	m.renderDurationSeconds.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) AddDownloadBytes(role string, n int64) {
	m.downloadBytesTotal.WithLabelValues(role).Add(float64(n))
}

func (m *Metrics) IncQuoteFailure() {
	m.quoteFailuresTotal.Inc()
}

func (m *Metrics) ObserveHTTP(method, path string, status int) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
