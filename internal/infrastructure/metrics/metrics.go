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

// Metrics agrupa os coletores da aplicação em um registry próprio.
// Implementa ports.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestLatency     *prometheus.HistogramVec
	UsersCreated       prometheus.Counter
	UsersUpdated       prometheus.Counter
	UsersDeleted       prometheus.Counter
	ValidationFailures *prometheus.CounterVec
}

// New cria e registra os coletores
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		RequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total users created",
		}),
		UsersUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_updated_total",
			Help: "Total users updated",
		}),
		UsersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_deleted_total",
			Help: "Total users deleted",
		}),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_validation_failures_total",
				Help: "Rejected user fields, by field",
			},
			[]string{"field"},
		),
	}
}

// Handler expõe o registry no formato do Prometheus (/metrics)
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest registra uma requisição HTTP concluída
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.RequestsTotal.WithLabelValues(route, method, code).Inc()
	m.RequestLatency.WithLabelValues(route, method, code).Observe(elapsed.Seconds())
}

func (m *Metrics) UserCreated() { m.UsersCreated.Inc() }

func (m *Metrics) UserUpdated() { m.UsersUpdated.Inc() }

func (m *Metrics) UserDeleted() { m.UsersDeleted.Inc() }

func (m *Metrics) ValidationFailed(field string) {
	m.ValidationFailures.WithLabelValues(field).Inc()
}
