package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	require.NotNil(t, m)

	m.SweepRecordsTotal.WithLabelValues("completion", OutcomeApproved).Inc()
	m.SweepRecordsTotal.WithLabelValues("completion", OutcomeApproved).Inc()
	m.DispatchTotal.WithLabelValues("event_finalized", "failed").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SweepRecordsTotal.WithLabelValues("completion", OutcomeApproved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("event_finalized", "failed")))
}

func TestNewWithRegistry_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	assert.Panics(t, func() { NewWithRegistry(reg) })
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
