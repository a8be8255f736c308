package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing, so components can run without instrumentation.
type Metrics struct {
	// Window metrics
	WindowsOpen    prometheus.Gauge
	WindowsCreated prometheus.Counter
	WindowsClosed  prometheus.Counter

	// Session metrics
	SessionSaves *prometheus.CounterVec
	SessionLoads *prometheus.CounterVec

	// Surface metrics
	SurfaceFailures *prometheus.CounterVec

	// Input metrics
	InputCommands *prometheus.CounterVec

	// Control API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	WSConnections   prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers all collectors on reg
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "kiosk_windows_open",
				Help: "Number of open windows",
			},
		),
		WindowsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kiosk_windows_created_total",
				Help: "Total number of windows created",
			},
		),
		WindowsClosed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kiosk_windows_closed_total",
				Help: "Total number of windows closed",
			},
		),

		SessionSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_session_saves_total",
				Help: "Session document saves by result",
			},
			[]string{"result"},
		),
		SessionLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_session_loads_total",
				Help: "Session document loads by result",
			},
			[]string{"result"},
		),

		SurfaceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_surface_failures_total",
				Help: "Best-effort surface commands that failed, by command",
			},
			[]string{"command"},
		),

		InputCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_input_commands_total",
				Help: "Keyboard commands dispatched, by command",
			},
			[]string{"command"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_control_requests_total",
				Help: "Control API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kiosk_control_request_duration_seconds",
				Help:    "Control API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "kiosk_event_stream_connections",
				Help: "Open event stream connections",
			},
		),
	}
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SetWindowsOpen records the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	if m == nil {
		return
	}
	m.WindowsOpen.Set(float64(count))
}

// IncWindowsCreated counts a created window
func (m *Metrics) IncWindowsCreated() {
	if m == nil {
		return
	}
	m.WindowsCreated.Inc()
}

// IncWindowsClosed counts a closed window
func (m *Metrics) IncWindowsClosed() {
	if m == nil {
		return
	}
	m.WindowsClosed.Inc()
}

// RecordSessionSave counts a save by result ("ok", "error")
func (m *Metrics) RecordSessionSave(result string) {
	if m == nil {
		return
	}
	m.SessionSaves.WithLabelValues(result).Inc()
}

// RecordSessionLoad counts a load by result ("restored", "empty", "absent", "error")
func (m *Metrics) RecordSessionLoad(result string) {
	if m == nil {
		return
	}
	m.SessionLoads.WithLabelValues(result).Inc()
}

// RecordSurfaceFailure counts a failed best-effort surface command
func (m *Metrics) RecordSurfaceFailure(command string) {
	if m == nil {
		return
	}
	m.SurfaceFailures.WithLabelValues(command).Inc()
}

// RecordInputCommand counts a dispatched keyboard command
func (m *Metrics) RecordInputCommand(command string) {
	if m == nil {
		return
	}
	m.InputCommands.WithLabelValues(command).Inc()
}

// RecordHTTPRequest records a control API request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncWSConnections counts an opened event stream
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections counts a closed event stream
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
