package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pszymczyk/nodecat"
)

// Compile-time interface verification.
var _ nodecat.SnapshotStore = (*SnapshotService)(nil)

// SnapshotService implements nodecat.SnapshotStore using SQLite.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// SaveSnapshot stores a snapshot. The write is skipped when the fingerprint
// matches the latest stored snapshot, so an unchanged catalog does not grow
// the table on every refresh.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, snap *nodecat.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	latest, err := s.LoadLatest(ctx)
	if err != nil && nodecat.ErrorCode(err) != nodecat.ENOTFOUND {
		return err
	}
	if err == nil && latest.Fingerprint == snap.Fingerprint {
		snap.ID = latest.ID
		return nil
	}

	snap.ID = uuid.New().String()
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}

	nodes, err := json.Marshal(snap.Nodes)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot nodes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, fingerprint, fetched_at, nodes)
		VALUES (?, ?, ?, ?)
	`, snap.ID, strconv.FormatUint(snap.Fingerprint, 10), snap.FetchedAt.Format(time.RFC3339), string(nodes))

	return err
}

// LoadLatest returns the most recently fetched snapshot.
func (s *SnapshotService) LoadLatest(ctx context.Context) (*nodecat.Snapshot, error) {
	var snap nodecat.Snapshot
	var fingerprint, fetchedAt, nodes string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, fetched_at, nodes
		FROM snapshots
		ORDER BY fetched_at DESC, id
		LIMIT 1
	`).Scan(&snap.ID, &fingerprint, &fetchedAt, &nodes)

	if err == sql.ErrNoRows {
		return nil, nodecat.Errorf(nodecat.ENOTFOUND, "no snapshot found")
	}
	if err != nil {
		return nil, err
	}

	snap.Fingerprint, err = strconv.ParseUint(fingerprint, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fingerprint: %w", err)
	}
	snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}
	if err := json.Unmarshal([]byte(nodes), &snap.Nodes); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot nodes: %w", err)
	}

	return &snap, nil
}
