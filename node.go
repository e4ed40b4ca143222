package nodecat

import (
	"context"
	"time"
)

// NodeType describes one entry in the remote node-type catalog. A NodeType
// is immutable once cached; each successful refresh replaces the whole
// entry set rather than merging into it.
type NodeType struct {
	// Unique key used in workflow definitions, e.g. "n8n-nodes-base.httpRequest".
	CanonicalName string `json:"canonicalName"`

	// Human-readable name shown in editors. Defaults to CanonicalName
	// when the catalog omits it.
	DisplayName string `json:"displayName"`

	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Version     float64 `json:"version,omitempty"`
}

// Validate returns an error if the node type contains invalid fields.
func (n *NodeType) Validate() error {
	if n.CanonicalName == "" {
		return Errorf(EINVALID, "node type canonical name required")
	}
	return nil
}

// CatalogFetcher retrieves the full node-type catalog from a remote source.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) ([]NodeType, error)
}

// Registry serves a local, freshness-bounded mirror of the catalog.
type Registry interface {
	// EnsureFresh refreshes the mirror when it is stale or empty,
	// coalescing concurrent callers onto a single in-flight fetch.
	// It never fails: on fetch failure the registry keeps serving stale
	// entries or degrades to a fallback dataset.
	EnsureFresh(ctx context.Context)

	// Lookup returns the descriptor for a canonical name after an
	// implicit EnsureFresh.
	Lookup(ctx context.Context, name string) (NodeType, bool)

	// List returns all descriptors sorted by canonical name.
	List(ctx context.Context) []NodeType

	// Names returns all canonical names sorted lexicographically.
	Names(ctx context.Context) []string
}

// Snapshot is a persisted copy of one successfully fetched catalog. It lets
// a restarted process serve real (if stale) data instead of the minimal
// built-in fallback when the remote is unreachable.
type Snapshot struct {
	ID          string     `json:"id"`
	Fingerprint uint64     `json:"fingerprint"`
	FetchedAt   time.Time  `json:"fetchedAt"`
	Nodes       []NodeType `json:"nodes"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if len(s.Nodes) == 0 {
		return Errorf(EINVALID, "snapshot nodes required")
	}
	return nil
}

// SnapshotStore persists catalog snapshots across restarts.
type SnapshotStore interface {
	// SaveSnapshot stores a snapshot. Implementations may skip the write
	// when the fingerprint matches the latest stored snapshot.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadLatest returns the most recently fetched snapshot.
	// Returns ENOTFOUND if no snapshot has been saved.
	LoadLatest(ctx context.Context) (*Snapshot, error)
}
