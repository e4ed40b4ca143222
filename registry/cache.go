// Package registry implements the local mirror of the remote node-type
// catalog: TTL-bounded freshness, single-flight coalescing of concurrent
// refreshes, and graceful degradation to stale entries, a persisted
// snapshot, or a built-in fallback dataset.
package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/pszymczyk/nodecat"
)

// DefaultTTL is how long a populated cache is trusted before the next read
// triggers a refresh.
const DefaultTTL = time.Hour

// DefaultFetchTimeout bounds a single remote fetch. A hung remote must not
// block waiting validations indefinitely; timeout is an ordinary fetch
// failure and feeds the stale/fallback path.
const DefaultFetchTimeout = 30 * time.Second

// Compile-time interface verification.
var _ nodecat.Registry = (*Cache)(nil)

// Cache mirrors the remote node-type catalog in memory. The entries map is
// replaced wholesale on refresh so readers never observe a partial update.
type Cache struct {
	fetcher nodecat.CatalogFetcher
	store   nodecat.SnapshotStore
	logger  *slog.Logger
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	entries     map[string]nodecat.NodeType
	lastRefresh time.Time
	fingerprint uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the freshness window. Defaults to DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithFetchTimeout sets the per-fetch deadline. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

// WithSnapshotStore enables snapshot persistence: successful fetches are
// saved, and a cold cache with an unreachable remote loads the latest
// snapshot before resorting to the built-in fallback.
func WithSnapshotStore(store nodecat.SnapshotStore) Option {
	return func(c *Cache) { c.store = store }
}

// WithLogger sets the logger used for refresh and degradation events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithClock overrides the time source. Useful for testing TTL behavior
// without real delays.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a new Cache around the given fetcher. The cache starts
// empty; the first read populates it.
func NewCache(fetcher nodecat.CatalogFetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		logger:  slog.Default(),
		ttl:     DefaultTTL,
		timeout: DefaultFetchTimeout,
		now:     time.Now,
		entries: make(map[string]nodecat.NodeType),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureFresh refreshes the mirror when it is stale or empty. Callers that
// arrive while a refresh is in flight await that same refresh instead of
// starting another. It never fails: every outcome leaves the cache servable.
func (c *Cache) EnsureFresh(ctx context.Context) {
	if c.fresh() {
		return
	}
	_, _, _ = c.group.Do("refresh", func() (any, error) {
		c.refresh(ctx)
		return nil, nil
	})
}

// Lookup returns the descriptor for a canonical name after an implicit
// EnsureFresh.
func (c *Cache) Lookup(ctx context.Context, name string) (nodecat.NodeType, bool) {
	c.EnsureFresh(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	nt, ok := c.entries[name]
	return nt, ok
}

// List returns all descriptors sorted by canonical name.
func (c *Cache) List(ctx context.Context) []nodecat.NodeType {
	c.EnsureFresh(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	nodes := make([]nodecat.NodeType, 0, len(c.entries))
	for _, nt := range c.entries {
		nodes = append(nodes, nt)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].CanonicalName < nodes[j].CanonicalName
	})
	return nodes
}

// Names returns all canonical names sorted lexicographically.
func (c *Cache) Names(ctx context.Context) []string {
	c.EnsureFresh(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LastRefresh returns when the last refresh attempt completed.
func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// Fingerprint returns the xxhash of the current entry set.
func (c *Cache) Fingerprint() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fingerprint
}

func (c *Cache) fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries) > 0 && c.now().Sub(c.lastRefresh) < c.ttl
}

// refresh fetches the catalog and applies the outcome. Runs inside the
// single-flight group, so at most one refresh executes at a time.
func (c *Cache) refresh(ctx context.Context) {
	// A caller queued behind a refresh that just completed must not
	// trigger a second remote call.
	if c.fresh() {
		return
	}

	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	begin := c.now()
	nodes, err := c.fetcher.FetchCatalog(fctx)
	if err == nil && len(nodes) == 0 {
		err = nodecat.Errorf(nodecat.EUNAVAILABLE, "remote returned an empty catalog")
	}
	if err == nil {
		fp := c.apply(nodes, "remote")
		c.persist(ctx, nodes, fp)
		return
	}

	c.mu.RLock()
	hasData := len(c.entries) > 0
	c.mu.RUnlock()

	if hasData {
		// Serve stale rather than erroring. Stamping lastRefresh keeps
		// a dead remote from turning every read into a fetch.
		c.mu.Lock()
		c.lastRefresh = c.now()
		c.mu.Unlock()
		c.logger.Warn("catalog refresh failed, serving stale entries",
			"error", err,
			"duration", c.now().Sub(begin),
		)
		return
	}

	if c.store != nil {
		if snap, serr := c.store.LoadLatest(ctx); serr == nil && len(snap.Nodes) > 0 {
			c.apply(snap.Nodes, "snapshot")
			c.logger.Warn("catalog refresh failed, loaded persisted snapshot",
				"error", err,
				"snapshotAge", c.now().Sub(snap.FetchedAt),
				"nodes", len(snap.Nodes),
			)
			return
		}
	}

	fallback := FallbackNodeTypes()
	c.apply(fallback, "fallback")
	c.logger.Warn("catalog refresh failed, applied built-in fallback dataset",
		"error", err,
		"nodes", len(fallback),
	)
}

// apply swaps in a whole new entries map and stamps lastRefresh. Entries
// without a canonical name are skipped. Returns the new fingerprint.
func (c *Cache) apply(nodes []nodecat.NodeType, source string) uint64 {
	entries := make(map[string]nodecat.NodeType, len(nodes))
	for _, nt := range nodes {
		if nt.CanonicalName == "" {
			continue
		}
		entries[nt.CanonicalName] = nt
	}
	fp := fingerprint(entries)

	c.mu.Lock()
	changed := fp != c.fingerprint
	c.entries = entries
	c.lastRefresh = c.now()
	c.fingerprint = fp
	c.mu.Unlock()

	if changed {
		c.logger.Info("catalog updated",
			"source", source,
			"nodes", len(entries),
			"fingerprint", fp,
		)
	} else {
		c.logger.Debug("catalog unchanged", "source", source, "nodes", len(entries))
	}
	return fp
}

// persist saves a successful fetch. Persistence failures are logged, never
// raised: the in-memory cache is already up to date.
func (c *Cache) persist(ctx context.Context, nodes []nodecat.NodeType, fp uint64) {
	if c.store == nil {
		return
	}
	snap := &nodecat.Snapshot{
		Fingerprint: fp,
		FetchedAt:   c.now(),
		Nodes:       nodes,
	}
	if err := c.store.SaveSnapshot(ctx, snap); err != nil {
		c.logger.Warn("failed to persist catalog snapshot", "error", err)
	}
}

// fingerprint hashes the canonical JSON of the sorted entries so equal
// catalogs produce equal fingerprints regardless of fetch order.
func fingerprint(entries map[string]nodecat.NodeType) uint64 {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	h := xxhash.New()
	for _, name := range names {
		raw, _ := json.Marshal(entries[name])
		_, _ = h.Write(raw)
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
