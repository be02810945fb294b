package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec

	// Snapshot metrics
	SnapshotOps      *prometheus.CounterVec
	SnapshotDuration *prometheus.HistogramVec
	SnapshotBytes    prometheus.Gauge
	BreakerState     *prometheus.GaugeVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
	snapshot  Snapshot
	mu        sync.RWMutex
}

// Snapshot holds current metric values for the JSON health API.
type Snapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	TotalErrors    int64   `json:"total_errors"`
	TotalCommands  int64   `json:"total_commands"`
	FailedCommands int64   `json:"failed_commands"`
	SnapshotBytes  int64   `json:"snapshot_bytes"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
	UptimeSeconds  float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vshell_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vshell_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vshell_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vshell_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vshell_command_calls_total",
				Help: "Total number of shell commands executed",
			},
			[]string{"service", "tool", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vshell_command_duration_seconds",
				Help:    "Shell command duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"service", "tool"},
		),
		CommandErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vshell_command_errors_total",
				Help: "Total number of failed shell commands",
			},
			[]string{"service", "tool", "code"},
		),

		SnapshotOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vshell_snapshot_operations_total",
				Help: "Total number of snapshot store operations",
			},
			[]string{"op", "status"},
		),
		SnapshotDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vshell_snapshot_duration_seconds",
				Help:    "Snapshot store operation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),
		SnapshotBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vshell_snapshot_bytes",
				Help: "Size of the last stored snapshot in bytes",
			},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vshell_storage_breaker_state",
				Help: "Circuit breaker state of the snapshot store (0 closed, 1 half-open, 2 open)",
			},
			[]string{"store"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vshell_sessions_active",
				Help: "Number of open shell sessions",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vshell_sessions_total",
				Help: "Total number of shell sessions created",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vshell_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vshell_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vshell_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCommand records one executed command.
func (m *Metrics) RecordCommand(service, tool, status string, duration time.Duration) {
	m.CommandCalls.WithLabelValues(service, tool, status).Inc()
	m.CommandDuration.WithLabelValues(service, tool).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalCommands++
	if status != "success" {
		m.snapshot.FailedCommands++
	}
	m.mu.Unlock()
}

// RecordCommandError records a failed command by error code.
func (m *Metrics) RecordCommandError(service, tool, code string) {
	m.CommandErrors.WithLabelValues(service, tool, code).Inc()
}

// ObserveSnapshot records a snapshot store operation.
func (m *Metrics) ObserveSnapshot(op string, size int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.SnapshotOps.WithLabelValues(op, status).Inc()
	m.SnapshotDuration.WithLabelValues(op).Observe(d.Seconds())

	if err == nil && size > 0 {
		m.SnapshotBytes.Set(float64(size))
		m.mu.Lock()
		m.snapshot.SnapshotBytes = int64(size)
		m.mu.Unlock()
	}
}

// SetBreakerState records the circuit breaker state of a store.
func (m *Metrics) SetBreakerState(store string, state int) {
	m.BreakerState.WithLabelValues(store).Set(float64(state))
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetSessionsActive sets the number of open sessions.
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
}

// IncSessionsTotal increments the created sessions counter.
func (m *Metrics) IncSessionsTotal() {
	m.SessionsTotal.Inc()
}

// IncWSConnections increments WebSocket connections.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// GetSnapshot returns current values for the JSON API.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMs = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
