package mock

import (
	"context"

	"github.com/pszymczyk/nodecat"
)

var _ nodecat.Registry = (*Registry)(nil)

// Registry is a mock implementation of nodecat.Registry.
type Registry struct {
	EnsureFreshFn func(ctx context.Context)
	LookupFn      func(ctx context.Context, name string) (nodecat.NodeType, bool)
	ListFn        func(ctx context.Context) []nodecat.NodeType
	NamesFn       func(ctx context.Context) []string
}

func (r *Registry) EnsureFresh(ctx context.Context) {
	r.EnsureFreshFn(ctx)
}

func (r *Registry) Lookup(ctx context.Context, name string) (nodecat.NodeType, bool) {
	return r.LookupFn(ctx, name)
}

func (r *Registry) List(ctx context.Context) []nodecat.NodeType {
	return r.ListFn(ctx)
}

func (r *Registry) Names(ctx context.Context) []string {
	return r.NamesFn(ctx)
}
