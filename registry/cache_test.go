package registry_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/pszymczyk/nodecat"
	"github.com/pszymczyk/nodecat/mock"
	"github.com/pszymczyk/nodecat/registry"
)

// testClock is a manually advanced time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func catalogOf(names ...string) []nodecat.NodeType {
	nodes := make([]nodecat.NodeType, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, nodecat.NodeType{CanonicalName: name, DisplayName: name})
	}
	return nodes
}

func TestCache_EnsureFresh(t *testing.T) {
	t.Parallel()

	t.Run("first read populates the cache", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				fetches.Add(1)
				return catalogOf("n8n-nodes-base.httpRequest"), nil
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		nt, ok := cache.Lookup(context.Background(), "n8n-nodes-base.httpRequest")
		require.True(t, ok)
		assert.Equal(t, "n8n-nodes-base.httpRequest", nt.CanonicalName)
		assert.Equal(t, int64(1), fetches.Load())
	})

	t.Run("fresh cache serves reads without fetching", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		var fetches atomic.Int64
		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				fetches.Add(1)
				return catalogOf("a.one", "a.two"), nil
			},
		}
		cache := registry.NewCache(fetcher,
			registry.WithLogger(quietLogger()),
			registry.WithClock(clock.Now),
		)

		ctx := context.Background()
		cache.EnsureFresh(ctx)
		clock.Advance(30 * time.Minute)
		cache.EnsureFresh(ctx)
		_, _ = cache.Lookup(ctx, "a.one")

		assert.Equal(t, int64(1), fetches.Load())
	})

	t.Run("expired cache refreshes", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		var fetches atomic.Int64
		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				fetches.Add(1)
				return catalogOf("a.one"), nil
			},
		}
		cache := registry.NewCache(fetcher,
			registry.WithLogger(quietLogger()),
			registry.WithClock(clock.Now),
		)

		ctx := context.Background()
		cache.EnsureFresh(ctx)
		clock.Advance(registry.DefaultTTL + time.Minute)
		cache.EnsureFresh(ctx)

		assert.Equal(t, int64(2), fetches.Load())
	})

	t.Run("concurrent callers share a single fetch", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				fetches.Add(1)
				time.Sleep(50 * time.Millisecond) // hold the refresh open so callers pile up
				return catalogOf("a.one"), nil
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		var g errgroup.Group
		for range 25 {
			g.Go(func() error {
				cache.EnsureFresh(context.Background())
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, int64(1), fetches.Load(), "concurrent EnsureFresh calls must coalesce onto one fetch")

		names := cache.Names(context.Background())
		assert.Equal(t, []string{"a.one"}, names)
	})

	t.Run("serves stale entries when refresh fails", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		var fetches atomic.Int64
		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				if fetches.Add(1) == 1 {
					return catalogOf("a.one"), nil
				}
				return nil, nodecat.Errorf(nodecat.EUNAVAILABLE, "remote down")
			},
		}
		cache := registry.NewCache(fetcher,
			registry.WithLogger(quietLogger()),
			registry.WithClock(clock.Now),
		)

		ctx := context.Background()
		cache.EnsureFresh(ctx)
		clock.Advance(registry.DefaultTTL + time.Minute)
		cache.EnsureFresh(ctx)

		// The stale entry is still served.
		_, ok := cache.Lookup(ctx, "a.one")
		assert.True(t, ok)

		// The failed attempt stamped lastRefresh, so reads inside the new
		// window do not hammer the dead remote.
		cache.EnsureFresh(ctx)
		_ = cache.Names(ctx)
		assert.Equal(t, int64(2), fetches.Load())
	})

	t.Run("falls back to the built-in dataset when nothing else exists", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return nil, nodecat.Errorf(nodecat.EUNAVAILABLE, "remote down")
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		names := cache.Names(context.Background())

		fallback := registry.FallbackNodeTypes()
		require.Len(t, names, len(fallback))
		assert.Contains(t, names, "n8n-nodes-base.httpRequest")
		for _, nt := range fallback {
			assert.Contains(t, names, nt.CanonicalName)
		}
	})

	t.Run("warm-starts from a persisted snapshot before falling back", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return nil, nodecat.Errorf(nodecat.EUNAVAILABLE, "remote down")
			},
		}
		store := &mock.SnapshotStore{
			LoadLatestFn: func(_ context.Context) (*nodecat.Snapshot, error) {
				return &nodecat.Snapshot{
					ID:        "snap-1",
					FetchedAt: time.Now().Add(-24 * time.Hour),
					Nodes:     catalogOf("a.persisted"),
				}, nil
			},
		}
		cache := registry.NewCache(fetcher,
			registry.WithLogger(quietLogger()),
			registry.WithSnapshotStore(store),
		)

		names := cache.Names(context.Background())
		assert.Equal(t, []string{"a.persisted"}, names)
	})

	t.Run("persists a snapshot after a successful fetch", func(t *testing.T) {
		t.Parallel()

		var saved *nodecat.Snapshot
		store := &mock.SnapshotStore{
			SaveSnapshotFn: func(_ context.Context, snap *nodecat.Snapshot) error {
				saved = snap
				return nil
			},
			LoadLatestFn: func(_ context.Context) (*nodecat.Snapshot, error) {
				return nil, nodecat.Errorf(nodecat.ENOTFOUND, "no snapshot found")
			},
		}
		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return catalogOf("a.one", "a.two"), nil
			},
		}
		cache := registry.NewCache(fetcher,
			registry.WithLogger(quietLogger()),
			registry.WithSnapshotStore(store),
		)

		cache.EnsureFresh(context.Background())

		require.NotNil(t, saved)
		assert.Len(t, saved.Nodes, 2)
		assert.NotZero(t, saved.Fingerprint)
		assert.Equal(t, cache.Fingerprint(), saved.Fingerprint)
	})

	t.Run("treats an empty remote catalog as a failure", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return nil, nil
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		names := cache.Names(context.Background())
		assert.Len(t, names, len(registry.FallbackNodeTypes()))
	})

	t.Run("applies the fetch timeout", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(ctx context.Context) ([]nodecat.NodeType, error) {
				<-ctx.Done() // hangs until the deadline fires
				return nil, ctx.Err()
			},
		}
		cache := registry.NewCache(fetcher,
			registry.WithLogger(quietLogger()),
			registry.WithFetchTimeout(20*time.Millisecond),
		)

		done := make(chan struct{})
		go func() {
			cache.EnsureFresh(context.Background())
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("EnsureFresh did not return; fetch timeout not applied")
		}

		// Timeout degraded to the fallback dataset.
		assert.Len(t, cache.Names(context.Background()), len(registry.FallbackNodeTypes()))
	})
}

func TestCache_Reads(t *testing.T) {
	t.Parallel()

	t.Run("skips entries without a canonical name", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return []nodecat.NodeType{
					{CanonicalName: "", DisplayName: "Nameless"},
					{CanonicalName: "a.named", DisplayName: "Named"},
				}, nil
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		assert.Equal(t, []string{"a.named"}, cache.Names(context.Background()))
	})

	t.Run("list and names are sorted", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return catalogOf("c.third", "a.first", "b.second"), nil
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		ctx := context.Background()
		assert.Equal(t, []string{"a.first", "b.second", "c.third"}, cache.Names(ctx))

		list := cache.List(ctx)
		require.Len(t, list, 3)
		assert.Equal(t, "a.first", list[0].CanonicalName)
		assert.Equal(t, "c.third", list[2].CanonicalName)
	})

	t.Run("lookup misses report absence", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.CatalogFetcher{
			FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
				return catalogOf("a.one"), nil
			},
		}
		cache := registry.NewCache(fetcher, registry.WithLogger(quietLogger()))

		_, ok := cache.Lookup(context.Background(), "a.absent")
		assert.False(t, ok)
	})

	t.Run("fingerprint is stable across equal catalogs", func(t *testing.T) {
		t.Parallel()

		newCache := func(names ...string) *registry.Cache {
			fetcher := &mock.CatalogFetcher{
				FetchCatalogFn: func(_ context.Context) ([]nodecat.NodeType, error) {
					return catalogOf(names...), nil
				},
			}
			return registry.NewCache(fetcher, registry.WithLogger(quietLogger()))
		}

		a := newCache("a.one", "b.two")
		b := newCache("b.two", "a.one") // same catalog, different fetch order

		ctx := context.Background()
		a.EnsureFresh(ctx)
		b.EnsureFresh(ctx)

		assert.Equal(t, a.Fingerprint(), b.Fingerprint())

		c := newCache("a.one")
		c.EnsureFresh(ctx)
		assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	})
}
