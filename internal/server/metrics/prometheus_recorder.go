package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	requestDuration *prom.HistogramVec
	requestsTotal   *prom.CounterVec
	catalogReplaces *prom.CounterVec
	catalogSize     prom.Gauge
	flagUploads     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "geokeeper",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "code"})
		pr.requestsTotal = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "geokeeper",
			Name:      "http_requests_total",
			Help:      "HTTP request counts by route and status code",
		}, []string{"route", "code"})
		pr.catalogReplaces = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "geokeeper",
			Name:      "catalog_replaces_total",
			Help:      "Dataset replacement attempts by result",
		}, []string{"result"})
		pr.catalogSize = prom.NewGauge(prom.GaugeOpts{
			Namespace: "geokeeper",
			Name:      "catalog_size",
			Help:      "Number of countries in the current dataset",
		})
		pr.flagUploads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "geokeeper",
			Name:      "flag_uploads_total",
			Help:      "Flag upload URL requests by result",
		}, []string{"result"})
		reg.MustRegister(pr.requestDuration, pr.requestsTotal, pr.catalogReplaces, pr.catalogSize, pr.flagUploads)
	})
	return pr
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

func (p *PrometheusRecorder) ObserveRequestDuration(route string, status int, d time.Duration) {
	if p == nil || p.requestDuration == nil {
		return
	}
	code := strconv.Itoa(status)
	p.requestDuration.WithLabelValues(route, code).Observe(d.Seconds())
	p.requestsTotal.WithLabelValues(route, code).Inc()
}

func (p *PrometheusRecorder) IncCatalogReplace(success bool) {
	if p == nil || p.catalogReplaces == nil {
		return
	}
	p.catalogReplaces.WithLabelValues(resultLabel(success)).Inc()
}

func (p *PrometheusRecorder) SetCatalogSize(n int) {
	if p == nil || p.catalogSize == nil {
		return
	}
	p.catalogSize.Set(float64(n))
}

func (p *PrometheusRecorder) IncFlagUpload(success bool) {
	if p == nil || p.flagUploads == nil {
		return
	}
	p.flagUploads.WithLabelValues(resultLabel(success)).Inc()
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the
// provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		reg = prom.DefaultRegisterer.(*prom.Registry)
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
