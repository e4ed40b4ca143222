package mock

import (
	"context"

	"github.com/pszymczyk/nodecat"
)

var _ nodecat.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of nodecat.SnapshotStore.
type SnapshotStore struct {
	SaveSnapshotFn func(ctx context.Context, snap *nodecat.Snapshot) error
	LoadLatestFn   func(ctx context.Context) (*nodecat.Snapshot, error)
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *nodecat.Snapshot) error {
	return s.SaveSnapshotFn(ctx, snap)
}

func (s *SnapshotStore) LoadLatest(ctx context.Context) (*nodecat.Snapshot, error) {
	return s.LoadLatestFn(ctx)
}
