package mock

import (
	"context"

	"github.com/pszymczyk/nodecat"
)

var _ nodecat.ValidationService = (*ValidationService)(nil)

// ValidationService is a mock implementation of nodecat.ValidationService.
type ValidationService struct {
	ValidateTypeFn  func(ctx context.Context, typ string) nodecat.ValidationResult
	ValidateBatchFn func(ctx context.Context, nodes []nodecat.WorkflowNode) []nodecat.InvalidNode
	ListTypesFn     func(ctx context.Context) []string
	ListNodeTypesFn func(ctx context.Context) []nodecat.NodeType
}

func (v *ValidationService) ValidateType(ctx context.Context, typ string) nodecat.ValidationResult {
	return v.ValidateTypeFn(ctx, typ)
}

func (v *ValidationService) ValidateBatch(ctx context.Context, nodes []nodecat.WorkflowNode) []nodecat.InvalidNode {
	return v.ValidateBatchFn(ctx, nodes)
}

func (v *ValidationService) ListTypes(ctx context.Context) []string {
	return v.ListTypesFn(ctx)
}

func (v *ValidationService) ListNodeTypes(ctx context.Context) []nodecat.NodeType {
	return v.ListNodeTypesFn(ctx)
}
