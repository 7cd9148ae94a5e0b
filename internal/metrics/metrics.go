// Package metrics exposes Prometheus instrumentation for screening lookups.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded on the lookups counter. Upstream failures use
// the failure kind as outcome instead.
const (
	OutcomePopulated = "populated"
	OutcomeEmpty     = "empty"
)

// Metrics holds the lookup collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg, reusing collectors
// that are already registered under the same name.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amlscreen",
			Name:      "lookups_total",
			Help:      "Screening lookups by outcome.",
		}, []string{"outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amlscreen",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of upstream screening lookups.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
	if reg == nil {
		return m, nil
	}
	if err := registerOrReuse(reg, &m.Lookups); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.LookupDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}

// ObserveLookup records one finished lookup.
func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(d.Seconds())
}
