// Package prometheus provides metrics decorators for nodecat services.
package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pszymczyk/nodecat"
)

// Ensure MetricsRegistry implements nodecat.Registry.
var _ nodecat.Registry = (*MetricsRegistry)(nil)

// MetricsRegistry wraps a Registry with Prometheus instrumentation:
// lookup hit/miss counts and freshness-check durations.
type MetricsRegistry struct {
	next nodecat.Registry

	lookups     *prometheus.CounterVec
	ensureFresh prometheus.Histogram
}

// NewMetricsRegistry creates a new MetricsRegistry, registering its
// collectors with reg.
func NewMetricsRegistry(next nodecat.Registry, reg prometheus.Registerer) *MetricsRegistry {
	m := &MetricsRegistry{
		next: next,
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nodecat",
				Subsystem: "registry",
				Name:      "lookups_total",
				Help:      "Node type lookups by result.",
			},
			[]string{"result"},
		),
		ensureFresh: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "nodecat",
				Subsystem: "registry",
				Name:      "ensure_fresh_duration_seconds",
				Help:      "Duration of freshness checks, including any refresh they trigger.",
			},
		),
	}
	reg.MustRegister(m.lookups, m.ensureFresh)
	return m
}

// EnsureFresh delegates to the wrapped registry and observes the duration.
func (m *MetricsRegistry) EnsureFresh(ctx context.Context) {
	begin := time.Now()
	m.next.EnsureFresh(ctx)
	m.ensureFresh.Observe(time.Since(begin).Seconds())
}

// Lookup delegates to the wrapped registry and counts the result.
func (m *MetricsRegistry) Lookup(ctx context.Context, name string) (nodecat.NodeType, bool) {
	nt, ok := m.next.Lookup(ctx, name)
	if ok {
		m.lookups.WithLabelValues("hit").Inc()
	} else {
		m.lookups.WithLabelValues("miss").Inc()
	}
	return nt, ok
}

// List delegates to the wrapped registry.
func (m *MetricsRegistry) List(ctx context.Context) []nodecat.NodeType {
	return m.next.List(ctx)
}

// Names delegates to the wrapped registry.
func (m *MetricsRegistry) Names(ctx context.Context) []string {
	return m.next.Names(ctx)
}
