// Package metrics expone contadores Prometheus de la API. Todos los métodos aceptan
// un receptor nil para que los casos de uso funcionen sin métricas en tests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics vectores registrados por la aplicación.
type Metrics struct {
	mutations *prometheus.CounterVec
	sessions  *prometheus.CounterVec
	requests  *prometheus.HistogramVec
}

// New registra las métricas en reg. Con reg nil devuelve un Metrics inerte.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockboard_mutations_total",
		Help: "Mutaciones del record store por tipo, operación y resultado.",
	}, []string{"kind", "op", "outcome"})
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockboard_session_transitions_total",
		Help: "Transiciones del estado de sesión.",
	}, []string{"event"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockboard_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(mutations, sessions, requests)
	return &Metrics{mutations: mutations, sessions: sessions, requests: requests}
}

// ObserveMutation cuenta una mutación terminada.
func (m *Metrics) ObserveMutation(kind, op, outcome string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(kind), normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// ObserveSession cuenta un evento de sesión (login, signup, logout, rejected...).
func (m *Metrics) ObserveSession(event string) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.WithLabelValues(normalizeLabel(event)).Inc()
}

// ObserveRequest registra la duración de una petición HTTP.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
