package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - метрики обращений к бэкенду
type Metrics struct {
	Requests             *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	TransportErrors      *prometheus.CounterVec
	SessionInvalidations prometheus.Counter
	Logins               *prometheus.CounterVec
}

// New регистрирует метрики в registry
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendersdz_backend_requests_total",
				Help: "Total number of backend API requests by method and status class",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tendersdz_backend_request_duration_seconds",
				Help:    "Backend API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		TransportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendersdz_backend_transport_errors_total",
				Help: "Requests that received no response",
			},
			[]string{"method"},
		),
		SessionInvalidations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tendersdz_session_invalidations_total",
				Help: "Sessions cleared after the backend rejected the token",
			},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendersdz_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// StatusClass сворачивает код ответа в 2xx/4xx/5xx; 401 выделен отдельно
func StatusClass(code int) string {
	if code == 401 {
		return "401"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ObserveRequest учитывает полученный ответ. Безопасен для nil.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, StatusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTransportError(method string) {
	if m == nil {
		return
	}
	m.TransportErrors.WithLabelValues(method).Inc()
}

func (m *Metrics) ObserveInvalidation() {
	if m == nil {
		return
	}
	m.SessionInvalidations.Inc()
}

func (m *Metrics) ObserveLogin(ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.Logins.WithLabelValues(outcome).Inc()
}
