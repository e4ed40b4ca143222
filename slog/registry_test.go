package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pszymczyk/nodecat"
	"github.com/pszymczyk/nodecat/mock"
	ncslog "github.com/pszymczyk/nodecat/slog"
)

func TestLoggingRegistry(t *testing.T) {
	t.Parallel()

	t.Run("logs lookup misses", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		inner := &mock.Registry{
			LookupFn: func(_ context.Context, name string) (nodecat.NodeType, bool) {
				return nodecat.NodeType{}, false
			},
		}

		reg := ncslog.NewLoggingRegistry(inner, logger)
		_, ok := reg.Lookup(context.Background(), "a.missing")

		assert.False(t, ok)
		assert.Contains(t, buf.String(), "node type not found")
		assert.Contains(t, buf.String(), "a.missing")
	})

	t.Run("delegates reads to the wrapped registry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		var ensured bool
		inner := &mock.Registry{
			EnsureFreshFn: func(_ context.Context) { ensured = true },
			NamesFn: func(_ context.Context) []string {
				return []string{"a.one"}
			},
			ListFn: func(_ context.Context) []nodecat.NodeType {
				return []nodecat.NodeType{{CanonicalName: "a.one"}}
			},
		}

		reg := ncslog.NewLoggingRegistry(inner, logger)
		reg.EnsureFresh(context.Background())
		assert.True(t, ensured)
		assert.Equal(t, []string{"a.one"}, reg.Names(context.Background()))
		require.Len(t, reg.List(context.Background()), 1)
	})
}

func TestLoggingValidator(t *testing.T) {
	t.Parallel()

	t.Run("logs unknown types with their suggestion", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		inner := &mock.ValidationService{
			ValidateTypeFn: func(_ context.Context, typ string) nodecat.ValidationResult {
				return nodecat.ValidationResult{Suggestion: "n8n-nodes-base.httpRequest"}
			},
		}

		v := ncslog.NewLoggingValidator(inner, logger)
		result := v.ValidateType(context.Background(), "n8n-nodes-base.httpReqeust")

		assert.False(t, result.Valid)
		assert.Contains(t, buf.String(), "unknown node type")
		assert.Contains(t, buf.String(), "n8n-nodes-base.httpRequest")
	})

	t.Run("stays quiet for valid types", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		inner := &mock.ValidationService{
			ValidateTypeFn: func(_ context.Context, typ string) nodecat.ValidationResult {
				return nodecat.ValidationResult{Valid: true}
			},
		}

		v := ncslog.NewLoggingValidator(inner, logger)
		result := v.ValidateType(context.Background(), "n8n-nodes-base.set")

		assert.True(t, result.Valid)
		assert.Empty(t, buf.String())
	})

	t.Run("logs a batch summary when invalid nodes are found", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		inner := &mock.ValidationService{
			ValidateBatchFn: func(_ context.Context, nodes []nodecat.WorkflowNode) []nodecat.InvalidNode {
				return []nodecat.InvalidNode{{Type: "a.invalid"}}
			},
		}

		v := ncslog.NewLoggingValidator(inner, logger)
		invalid := v.ValidateBatch(context.Background(), []nodecat.WorkflowNode{
			{Type: "a.valid"},
			{Type: "a.invalid"},
		})

		require.Len(t, invalid, 1)
		assert.Contains(t, buf.String(), "unknown node types")
	})
}
