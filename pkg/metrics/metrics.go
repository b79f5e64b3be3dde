package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados del registro de una venta.
const (
	SaleCreated   = "creada"
	SaleDuplicate = "duplicada"
	SaleRejected  = "rechazada"
	SaleError     = "error"
)

// Resultados del disparador de traslados.
const (
	TransferExecuted = "ejecutada"
	TransferIgnored  = "ignorada"
	TransferError    = "error"
)

// Metrics agrupa las métricas del servicio en un registry propio.
// Todos los métodos aceptan un receptor nil (métricas desactivadas).
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SalesTotal      *prometheus.CounterVec
	SaleDuration    prometheus.Histogram
	TransfersTotal  *prometheus.CounterVec
	TxRetriesTotal  prometheus.Counter
	CacheLookups    *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	BreakerState    *prometheus.GaugeVec
}

// New crea las métricas bajo el namespace dado (ej. "ventas").
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	m.SalesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registro_total",
			Help:      "Ventas procesadas por resultado",
		},
		[]string{"resultado"},
	)
	m.SaleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registro_duracion_segundos",
			Help:      "Duración de la transacción de registro de venta",
			Buckets:   prometheus.DefBuckets,
		},
	)
	m.TransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferencias_total",
			Help:      "Cambios de órdenes de traslado procesados por resultado",
		},
		[]string{"resultado"},
	)
	m.TxRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_reintentos_total",
			Help:      "Reintentos de transacción por conflicto de concurrencia",
		},
	)
	m.CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_consultas_total",
			Help:      "Consultas a la caché de claves de venta",
		},
		[]string{"resultado"},
	)
	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventos_publicados_total",
			Help:      "Eventos publicados por tópico y estado",
		},
		[]string{"topic", "status"},
	)
	m.BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Estado del circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SalesTotal,
		m.SaleDuration,
		m.TransfersTotal,
		m.TxRetriesTotal,
		m.CacheLookups,
		m.EventsPublished,
		m.BreakerState,
	)
	return m
}

// Handler devuelve el handler HTTP de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry devuelve el registry de prometheus.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest registra una petición HTTP.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSale registra el resultado de un registro de venta.
func (m *Metrics) RecordSale(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SalesTotal.WithLabelValues(result).Inc()
	m.SaleDuration.Observe(duration.Seconds())
}

// RecordTransfer registra el resultado del disparador de traslados.
func (m *Metrics) RecordTransfer(result string) {
	if m == nil {
		return
	}
	m.TransfersTotal.WithLabelValues(result).Inc()
}

// RecordTxRetry cuenta un reintento de transacción.
func (m *Metrics) RecordTxRetry() {
	if m == nil {
		return
	}
	m.TxRetriesTotal.Inc()
}

// RecordCacheLookup registra un acierto o fallo de caché.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordPublish registra la publicación de un evento.
func (m *Metrics) RecordPublish(topic string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(topic, status).Inc()
}

// SetBreakerState fija el estado del breaker (0=closed, 1=half-open, 2=open).
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}
