// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rollbook"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// so components can be built without a registry in tests.
type Metrics struct {
	toggles       prometheus.Counter
	activities    *prometheus.CounterVec
	reverts       *prometheus.CounterVec
	imports       *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
	groups        prometheus.Gauge
	members       prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		toggles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_toggles_total",
			Help:      "Attendance cells advanced through the toggle cycle.",
		}),
		activities: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_recorded_total",
			Help:      "Activity log entries recorded, by mutation type.",
		}, []string{"type"}),
		reverts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reverts_total",
			Help:      "Revert requests, by outcome.",
		}, []string{"outcome"}),
		imports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "CSV imports, by result.",
		}, []string{"result"}),
		storeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_write_failures_total",
			Help:      "Record store writes that failed, by operation.",
		}, []string{"op"}),
		groups: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Groups currently held in memory.",
		}),
		members: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members",
			Help:      "Members over all groups currently held in memory.",
		}),
	}
}

func (m *Metrics) AttendanceToggled() {
	if m == nil {
		return
	}
	m.toggles.Inc()
}

func (m *Metrics) ActivityRecorded(kind string) {
	if m == nil {
		return
	}
	m.activities.WithLabelValues(kind).Inc()
}

func (m *Metrics) Reverted(outcome string) {
	if m == nil {
		return
	}
	m.reverts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Imported(result string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) StoreWriteFailed(op string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(op).Inc()
}

// SetSize updates the group and member gauges.
func (m *Metrics) SetSize(groups, members int) {
	if m == nil {
		return
	}
	m.groups.Set(float64(groups))
	m.members.Set(float64(members))
}
