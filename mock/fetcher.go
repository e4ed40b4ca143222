package mock

import (
	"context"

	"github.com/pszymczyk/nodecat"
)

var _ nodecat.CatalogFetcher = (*CatalogFetcher)(nil)

// CatalogFetcher is a mock implementation of nodecat.CatalogFetcher.
type CatalogFetcher struct {
	FetchCatalogFn func(ctx context.Context) ([]nodecat.NodeType, error)
}

func (f *CatalogFetcher) FetchCatalog(ctx context.Context) ([]nodecat.NodeType, error) {
	return f.FetchCatalogFn(ctx)
}
