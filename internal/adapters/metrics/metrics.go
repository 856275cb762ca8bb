package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the coordination module.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AlertsActivated  *prometheus.CounterVec
	AlertsCleared    prometheus.Counter
	IncidentsAdded   *prometheus.CounterVec
	UsersCreated     prometheus.Counter
	Logins           *prometheus.CounterVec
	OperationErrors  *prometheus.CounterVec
	ListenerFailures *prometheus.CounterVec
	SafetyScore      prometheus.Gauge
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AlertsActivated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ergosanitas_alerts_activated_total",
			Help: "Alerts activated, by level",
		}, []string{"level"}),
		AlertsCleared: f.NewCounter(prometheus.CounterOpts{
			Name: "ergosanitas_alerts_cleared_total",
			Help: "Alerts cleared manually or by expiry",
		}),
		IncidentsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ergosanitas_incidents_added_total",
			Help: "Incidents registered, by severity",
		}, []string{"severity"}),
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ergosanitas_users_created_total",
			Help: "Users created through the admin panel",
		}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ergosanitas_logins_total",
			Help: "Login attempts, by result",
		}, []string{"result"}),
		OperationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ergosanitas_operation_errors_total",
			Help: "Failed module operations, by operation and error kind",
		}, []string{"operation", "kind"}),
		ListenerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ergosanitas_listener_failures_total",
			Help: "Event listeners that panicked, by topic",
		}, []string{"topic"}),
		SafetyScore: f.NewGauge(prometheus.GaugeOpts{
			Name: "ergosanitas_safety_score",
			Help: "Most recently computed safety score (0-100)",
		}),
	}
}

// AlertActivated counts a new alert.
func (m *Metrics) AlertActivated(level string) {
	if m == nil {
		return
	}
	m.AlertsActivated.WithLabelValues(level).Inc()
}

// AlertCleared counts a removed alert.
func (m *Metrics) AlertCleared() {
	if m == nil {
		return
	}
	m.AlertsCleared.Inc()
}

// IncidentAdded counts a registered incident.
func (m *Metrics) IncidentAdded(severity string) {
	if m == nil {
		return
	}
	if severity == "" {
		severity = "unspecified"
	}
	m.IncidentsAdded.WithLabelValues(severity).Inc()
}

// UserCreated counts a new account.
func (m *Metrics) UserCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// Login counts a login attempt.
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.Logins.WithLabelValues(result).Inc()
}

// OperationFailed counts a failed operation.
func (m *Metrics) OperationFailed(operation, kind string) {
	if m == nil {
		return
	}
	m.OperationErrors.WithLabelValues(operation, kind).Inc()
}

// ListenerFailed counts a panicking listener.
func (m *Metrics) ListenerFailed(topic string, _ any) {
	if m == nil {
		return
	}
	m.ListenerFailures.WithLabelValues(topic).Inc()
}

// ObserveSafetyScore records the latest score.
func (m *Metrics) ObserveSafetyScore(score int) {
	if m == nil {
		return
	}
	m.SafetyScore.Set(float64(score))
}
