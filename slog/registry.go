// Package slog provides logging decorators for nodecat services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pszymczyk/nodecat"
)

// Ensure LoggingRegistry implements nodecat.Registry.
var _ nodecat.Registry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a Registry with debug logging for freshness checks
// and lookup misses.
type LoggingRegistry struct {
	next   nodecat.Registry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next nodecat.Registry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// EnsureFresh delegates to the wrapped registry and logs the duration. A
// freshness check that took real time indicates a refresh ran.
func (r *LoggingRegistry) EnsureFresh(ctx context.Context) {
	begin := time.Now()
	r.next.EnsureFresh(ctx)
	r.logger.Debug("registry freshness check", "duration", time.Since(begin))
}

// Lookup delegates to the wrapped registry and logs misses.
func (r *LoggingRegistry) Lookup(ctx context.Context, name string) (nodecat.NodeType, bool) {
	nt, ok := r.next.Lookup(ctx, name)
	if !ok {
		r.logger.Debug("node type not found", "type", name)
	}
	return nt, ok
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List(ctx context.Context) []nodecat.NodeType {
	return r.next.List(ctx)
}

// Names delegates to the wrapped registry.
func (r *LoggingRegistry) Names(ctx context.Context) []string {
	return r.next.Names(ctx)
}
