// Package metrics registers the prometheus collectors of the record lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sweep outcomes used as the "outcome" label.
const (
	OutcomeApproved        = "approved"
	OutcomeRejected        = "rejected"
	OutcomeRequestAccepted = "request_accepted"
	OutcomeRequestDeclined = "request_declined"
	OutcomeReminded        = "reminded"
	OutcomeLostRace        = "lost_race"
	OutcomeStale           = "stale"
	OutcomeError           = "error"
	OutcomeSkipped         = "skipped"
)

type Metrics struct {
	// records handled by a sweep (sweep, outcome)
	SweepRecordsTotal *prometheus.CounterVec

	// wall time of one sweep pass (sweep)
	SweepDuration *prometheus.HistogramVec

	// notifications handed to the dispatcher (code, status: success, failed)
	DispatchTotal *prometheus.CounterVec

	// interactive transitions (action, status: success, conflict, rejected, error)
	TransitionsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SweepRecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweep_records_total",
				Help: "Records handled by sweep passes",
			},
			[]string{"sweep", "outcome"},
		),
		SweepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sweep_duration_seconds",
				Help:    "Duration of a sweep pass in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"sweep"},
		),
		DispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_dispatched_total",
				Help: "Notifications handed to the dispatcher",
			},
			[]string{"code", "status"},
		),
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "record_transitions_total",
				Help: "Interactive record actions",
			},
			[]string{"action", "status"},
		),
	}

	reg.MustRegister(
		m.SweepRecordsTotal,
		m.SweepDuration,
		m.DispatchTotal,
		m.TransitionsTotal,
	)

	return m
}

// NewNop returns collectors bound to a private registry, for tests and tools.
func NewNop() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}
