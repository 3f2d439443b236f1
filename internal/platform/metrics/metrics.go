package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio en un registry propio
// (no el global, para que los tests no choquen entre sí).
// Todos los métodos aceptan receptor nil.
type Metrics struct {
	Registry *prometheus.Registry

	actasCreated  prometheus.Counter
	actasDeleted  prometheus.Counter
	buildFailures *prometheus.CounterVec
	exports       *prometheus.CounterVec
	exportPages   *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		actasCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actas",
			Name:      "created_total",
			Help:      "Actas guardadas.",
		}),
		actasDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actas",
			Name:      "deleted_total",
			Help:      "Actas borradas.",
		}),
		buildFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actas",
			Name:      "build_failures_total",
			Help:      "Altas rechazadas, por motivo.",
		}, []string{"reason"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actas",
			Name:      "pdf_exports_total",
			Help:      "Documentos PDF generados, por tipo.",
		}, []string{"kind"}),
		exportPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actas",
			Name:      "pdf_pages_total",
			Help:      "Páginas PDF generadas, por tipo.",
		}, []string{"kind"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "actas",
			Name:      "http_request_duration_seconds",
			Help:      "Duración de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.actasCreated,
		m.actasDeleted,
		m.buildFailures,
		m.exports,
		m.exportPages,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ActaCreated() {
	if m == nil {
		return
	}
	m.actasCreated.Inc()
}

func (m *Metrics) ActasDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.actasDeleted.Add(float64(n))
}

func (m *Metrics) BuildFailed(reason string) {
	if m == nil {
		return
	}
	m.buildFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) Exported(kind string, pages int) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(kind).Inc()
	m.exportPages.WithLabelValues(kind).Add(float64(pages))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
