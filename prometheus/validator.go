package prometheus

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pszymczyk/nodecat"
)

// Ensure MetricsValidator implements nodecat.ValidationService.
var _ nodecat.ValidationService = (*MetricsValidator)(nil)

// MetricsValidator wraps a ValidationService with Prometheus
// instrumentation: validation outcomes and suggestions offered.
type MetricsValidator struct {
	next nodecat.ValidationService

	validations *prometheus.CounterVec
	suggestions prometheus.Counter
}

// NewMetricsValidator creates a new MetricsValidator, registering its
// collectors with reg.
func NewMetricsValidator(next nodecat.ValidationService, reg prometheus.Registerer) *MetricsValidator {
	m := &MetricsValidator{
		next: next,
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nodecat",
				Subsystem: "validator",
				Name:      "validations_total",
				Help:      "Node type validations by result.",
			},
			[]string{"result"},
		),
		suggestions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "nodecat",
				Subsystem: "validator",
				Name:      "suggestions_total",
				Help:      "Fuzzy-match suggestions offered for unknown node types.",
			},
		),
	}
	reg.MustRegister(m.validations, m.suggestions)
	return m
}

func (m *MetricsValidator) observe(result nodecat.ValidationResult) {
	if result.Valid {
		m.validations.WithLabelValues("valid").Inc()
		return
	}
	m.validations.WithLabelValues("invalid").Inc()
	if result.Suggestion != "" {
		m.suggestions.Inc()
	}
}

// ValidateType delegates to the wrapped service and counts the outcome.
func (m *MetricsValidator) ValidateType(ctx context.Context, typ string) nodecat.ValidationResult {
	result := m.next.ValidateType(ctx, typ)
	m.observe(result)
	return result
}

// ValidateBatch delegates to the wrapped service and counts per-node outcomes.
func (m *MetricsValidator) ValidateBatch(ctx context.Context, nodes []nodecat.WorkflowNode) []nodecat.InvalidNode {
	invalid := m.next.ValidateBatch(ctx, nodes)
	for range len(nodes) - len(invalid) {
		m.validations.WithLabelValues("valid").Inc()
	}
	for _, entry := range invalid {
		m.validations.WithLabelValues("invalid").Inc()
		if entry.Suggestion != "" {
			m.suggestions.Inc()
		}
	}
	return invalid
}

// ListTypes delegates to the wrapped service.
func (m *MetricsValidator) ListTypes(ctx context.Context) []string {
	return m.next.ListTypes(ctx)
}

// ListNodeTypes delegates to the wrapped service.
func (m *MetricsValidator) ListNodeTypes(ctx context.Context) []nodecat.NodeType {
	return m.next.ListNodeTypes(ctx)
}
