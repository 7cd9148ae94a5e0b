package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveLookup(OutcomePopulated, 120*time.Millisecond)
	m.ObserveLookup(OutcomeEmpty, 80*time.Millisecond)
	m.ObserveLookup(OutcomeEmpty, 90*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Lookups.WithLabelValues(OutcomePopulated)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Lookups.WithLabelValues(OutcomeEmpty)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.Lookups))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	second.ObserveLookup("authentication", time.Second)
	assert.InDelta(t, 1, testutil.ToFloat64(first.Lookups.WithLabelValues("authentication")), 0)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveLookup(OutcomeEmpty, time.Second) })
}
