package slog

import (
	"context"
	"log/slog"

	"github.com/pszymczyk/nodecat"
)

// Ensure LoggingValidator implements nodecat.ValidationService.
var _ nodecat.ValidationService = (*LoggingValidator)(nil)

// LoggingValidator wraps a ValidationService and logs validation misses
// together with the suggestion offered, if any.
type LoggingValidator struct {
	next   nodecat.ValidationService
	logger *slog.Logger
}

// NewLoggingValidator creates a new LoggingValidator.
func NewLoggingValidator(next nodecat.ValidationService, logger *slog.Logger) *LoggingValidator {
	return &LoggingValidator{next: next, logger: logger}
}

// ValidateType delegates to the wrapped service and logs invalid types.
func (v *LoggingValidator) ValidateType(ctx context.Context, typ string) nodecat.ValidationResult {
	result := v.next.ValidateType(ctx, typ)
	if !result.Valid {
		v.logger.Info("unknown node type",
			"type", typ,
			"suggestion", result.Suggestion,
		)
	}
	return result
}

// ValidateBatch delegates to the wrapped service and logs a batch summary.
func (v *LoggingValidator) ValidateBatch(ctx context.Context, nodes []nodecat.WorkflowNode) []nodecat.InvalidNode {
	invalid := v.next.ValidateBatch(ctx, nodes)
	if len(invalid) > 0 {
		v.logger.Info("workflow validation found unknown node types",
			"nodes", len(nodes),
			"invalid", len(invalid),
		)
	}
	return invalid
}

// ListTypes delegates to the wrapped service.
func (v *LoggingValidator) ListTypes(ctx context.Context) []string {
	return v.next.ListTypes(ctx)
}

// ListNodeTypes delegates to the wrapped service.
func (v *LoggingValidator) ListNodeTypes(ctx context.Context) []nodecat.NodeType {
	return v.next.ListNodeTypes(ctx)
}
