package nodecat

import "context"

// ValidationResult reports whether a node type is known. Suggestion is set
// only when Valid is false and a known type clears SimilarityThreshold.
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Suggestion string `json:"suggestion,omitempty"`
}

// WorkflowNode is the subset of a workflow node consumed by batch validation.
type WorkflowNode struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// InvalidNode reports one workflow node whose declared type failed
// validation. Valid nodes produce no entry.
type InvalidNode struct {
	Name       string `json:"name,omitempty"`
	Type       string `json:"type"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationService validates node-type references against the registry.
type ValidationService interface {
	// ValidateType reports whether typ names a known node type. On miss
	// it proposes the closest known type, if any clears the threshold.
	ValidateType(ctx context.Context, typ string) ValidationResult

	// ValidateBatch validates each node's declared type and returns one
	// entry per invalid node, in input order. Repeated invalid types are
	// not deduplicated.
	ValidateBatch(ctx context.Context, nodes []WorkflowNode) []InvalidNode

	// ListTypes returns all known canonical names, sorted.
	ListTypes(ctx context.Context) []string

	// ListNodeTypes returns all known descriptors, sorted by canonical name.
	ListNodeTypes(ctx context.Context) []NodeType
}

// Compile-time interface verification.
var _ ValidationService = (*Validator)(nil)

// Validator implements ValidationService on top of a Registry and the
// similarity matcher.
type Validator struct {
	registry Registry
}

// NewValidator creates a new Validator backed by the given registry.
func NewValidator(registry Registry) *Validator {
	return &Validator{registry: registry}
}

// ValidateType reports whether typ names a known node type.
func (v *Validator) ValidateType(ctx context.Context, typ string) ValidationResult {
	if _, ok := v.registry.Lookup(ctx, typ); ok {
		return ValidationResult{Valid: true}
	}

	var result ValidationResult
	if suggestion, ok := BestMatch(typ, v.registry.Names(ctx)); ok {
		result.Suggestion = suggestion
	}
	return result
}

// ValidateBatch validates each node's declared type against the registry.
func (v *Validator) ValidateBatch(ctx context.Context, nodes []WorkflowNode) []InvalidNode {
	// One refresh covers the whole batch; per-node lookups below are
	// plain reads against the same snapshot.
	v.registry.EnsureFresh(ctx)
	names := v.registry.Names(ctx)

	var invalid []InvalidNode
	for _, node := range nodes {
		if _, ok := v.registry.Lookup(ctx, node.Type); ok {
			continue
		}
		entry := InvalidNode{Name: node.Name, Type: node.Type}
		if suggestion, ok := BestMatch(node.Type, names); ok {
			entry.Suggestion = suggestion
		}
		invalid = append(invalid, entry)
	}
	return invalid
}

// ListTypes returns all known canonical names, sorted.
func (v *Validator) ListTypes(ctx context.Context) []string {
	return v.registry.Names(ctx)
}

// ListNodeTypes returns all known descriptors, sorted by canonical name.
func (v *Validator) ListNodeTypes(ctx context.Context) []NodeType {
	return v.registry.List(ctx)
}
