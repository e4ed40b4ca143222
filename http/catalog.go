// Package http implements the remote node-type catalog fetcher over HTTP.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pszymczyk/nodecat"
)

// DefaultFetchTimeout is the default timeout for catalog requests.
const DefaultFetchTimeout = 10 * time.Second

// CatalogPath is the API path serving the full node-type catalog.
const CatalogPath = "/types/nodes.json"

// Ensure CatalogClient implements nodecat.CatalogFetcher at compile time.
var _ nodecat.CatalogFetcher = (*CatalogClient)(nil)

// CatalogClient fetches the node-type catalog from a remote API.
type CatalogClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// Option configures a CatalogClient.
type Option func(*CatalogClient)

// WithTimeout sets the timeout for catalog requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *CatalogClient) {
		c.timeout = d
	}
}

// WithRateLimit caps catalog requests at rps requests per second with a
// burst of 1. No limit is applied if not specified.
func WithRateLimit(rps float64) Option {
	return func(c *CatalogClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client's own
// timeout takes precedence over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *CatalogClient) {
		c.client = client
	}
}

// NewCatalogClient creates a new CatalogClient for the API at baseURL.
func NewCatalogClient(baseURL string, opts ...Option) *CatalogClient {
	c := &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}

	return c
}

// FetchCatalog retrieves and parses the full node-type catalog.
func (c *CatalogClient) FetchCatalog(ctx context.Context) ([]nodecat.NodeType, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CatalogPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nodecat.Errorf(nodecat.EUNAVAILABLE, "catalog request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseCatalog(body)
}

// catalogEntry is the wire form of one catalog entry. Only the fields the
// registry consumes are decoded; everything else is ignored.
type catalogEntry struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Group       []string `json:"group"`
	Version     float64  `json:"version"`
}

// ParseCatalog decodes a catalog payload: a JSON object mapping arbitrary
// keys to entry objects. Entries missing the required name are skipped
// silently rather than failing the whole payload. Results are sorted by
// canonical name.
func ParseCatalog(data []byte) ([]nodecat.NodeType, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nodecat.Errorf(nodecat.EINVALID, "malformed catalog payload: %v", err)
	}

	nodes := make([]nodecat.NodeType, 0, len(raw))
	for _, msg := range raw {
		var entry catalogEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			continue
		}
		if entry.Name == "" {
			continue
		}

		display := entry.DisplayName
		if display == "" {
			display = entry.Name
		}
		nodes = append(nodes, nodecat.NodeType{
			CanonicalName: entry.Name,
			DisplayName:   display,
			Description:   entry.Description,
			Category:      strings.Join(entry.Group, ","),
			Version:       entry.Version,
		})
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].CanonicalName < nodes[j].CanonicalName
	})
	return nodes, nil
}
