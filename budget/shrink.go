// Package budget shrinks structured responses to fit an estimated token
// budget. Shrinking runs an ordered list of named strategies, each a pure
// function from (value, budget) to (output, fits); the first strategy whose
// output fits wins, and the final strategy always fits by hard-truncating
// with a detectable marker.
package budget

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pszymczyk/nodecat"
)

// CharsPerToken is the canonical character-to-token ratio. Both the
// estimator and the hard-truncation cut length use it, so the two can never
// disagree about what fits.
const CharsPerToken = 3.5

// TruncationMarker is appended whenever output was cut mid-serialization,
// so callers can detect that content is missing.
const TruncationMarker = "\n...[truncated]"

// projectedKeys are the record fields worth keeping under pressure:
// identity, status, and timing. Everything else is summarized away.
var projectedKeys = []string{
	"id", "name", "type", "status", "error",
	"finished", "mode", "startedAt", "stoppedAt", "executionTime",
}

// summaryKeys is the even smaller projection used by Summarize.
var summaryKeys = []string{"id", "name", "status"}

// recordListKeys are the conventional names for a record list inside an
// object, probed in order before falling back to the lexicographically
// first slice-valued field.
var recordListKeys = []string{"data", "items", "results", "executions", "nodes"}

// EstimateTokens approximates the token cost of s at CharsPerToken
// characters per token, rounding up.
func EstimateTokens(s string) int {
	return int(math.Ceil(float64(len([]rune(s))) / CharsPerToken))
}

// Truncated reports whether s was hard-truncated by Shrink.
func Truncated(s string) bool {
	return strings.HasSuffix(s, TruncationMarker)
}

// Strategy is one named shrink tier. Apply returns the serialized output
// and whether it respects the budget.
type Strategy struct {
	Name  string
	Apply func(value any, budget int) (string, bool)
}

// Compile-time interface verification.
var _ nodecat.Budgeter = (*Shrinker)(nil)

// Shrinker applies shrink strategies in order until one fits. It is
// stateless between calls and fully deterministic: no clock, no randomness,
// and JSON object keys serialize in sorted order.
type Shrinker struct {
	strategies []Strategy
}

// NewShrinker returns a Shrinker with the default tiers: pass-through,
// record projection, hard truncation.
func NewShrinker() *Shrinker {
	s := &Shrinker{}
	s.strategies = []Strategy{
		{Name: "passthrough", Apply: passthrough},
		{Name: "project-records", Apply: projectRecords},
		{Name: "truncate", Apply: truncate},
	}
	return s
}

// Shrink serializes value, degrading it tier by tier until the output fits
// within budget tokens.
func (s *Shrinker) Shrink(value any, budget int) (string, error) {
	if _, err := serialize(value); err != nil {
		return "", err
	}
	for _, strategy := range s.strategies {
		if out, ok := strategy.Apply(value, budget); ok {
			return out, nil
		}
	}
	// The truncate tier always fits; reaching here means the strategy
	// list was tampered with.
	return "", nodecat.Errorf(nodecat.EINTERNAL, "no shrink strategy produced output")
}

// Summarize maps a list-shaped value to a fixed low-fidelity overview
// regardless of size. Unlike Shrink it never tries to preserve the full
// payload; it is a deliberate cheap alternative, not a fallback tier.
func (s *Shrinker) Summarize(value any) (string, error) {
	v, err := normalize(value)
	if err != nil {
		return "", err
	}

	var records []any
	var cursor any
	switch t := v.(type) {
	case []any:
		records = t
	case map[string]any:
		_, list, ok := recordList(t)
		if !ok {
			return "", nodecat.Errorf(nodecat.EINVALID, "value has no record list to summarize")
		}
		records = list
		cursor = t["nextCursor"]
	default:
		return "", nodecat.Errorf(nodecat.EINVALID, "value has no record list to summarize")
	}

	items := make([]any, 0, len(records))
	for _, rec := range records {
		items = append(items, project(rec, summaryKeys, false))
	}
	out := map[string]any{
		"total": len(records),
		"items": items,
	}
	if cursor != nil {
		out["nextCursor"] = cursor
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return "", nodecat.Errorf(nodecat.EINTERNAL, "failed to serialize summary: %v", err)
	}
	return string(raw), nil
}

// passthrough serializes the full value and fits only if the estimate is
// already within budget.
func passthrough(value any, budget int) (string, bool) {
	out, err := serialize(value)
	if err != nil {
		return "", false
	}
	return out, EstimateTokens(out) <= budget
}

// projectRecords replaces each element of the value's record list with the
// identity/status/timing projection plus a derived summary, then re-tests
// the budget. Values without a recognizable list-of-records shape never fit
// this tier.
func projectRecords(value any, budget int) (string, bool) {
	v, err := normalize(value)
	if err != nil {
		return "", false
	}

	var projected any
	switch t := v.(type) {
	case []any:
		items := make([]any, 0, len(t))
		for _, rec := range t {
			items = append(items, project(rec, projectedKeys, true))
		}
		projected = items
	case map[string]any:
		key, list, ok := recordList(t)
		if !ok {
			return "", false
		}
		items := make([]any, 0, len(list))
		for _, rec := range list {
			items = append(items, project(rec, projectedKeys, true))
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val
		}
		out[key] = items
		projected = out
	default:
		return "", false
	}

	raw, err := json.Marshal(projected)
	if err != nil {
		return "", false
	}
	return string(raw), EstimateTokens(string(raw)) <= budget
}

// truncate cuts the full serialization at the budget boundary and appends
// the truncation marker. It always fits in the sense of being final.
func truncate(value any, budget int) (string, bool) {
	out, err := serialize(value)
	if err != nil {
		return "", false
	}
	limit := int(float64(budget) * CharsPerToken)
	if limit < 0 {
		limit = 0
	}
	r := []rune(out)
	if len(r) <= limit {
		return out, true
	}
	return string(r[:limit]) + TruncationMarker, true
}

// serialize renders value as JSON. Strings pass through untouched so the
// shrink pipeline composes with already-serialized payloads.
func serialize(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", nodecat.Errorf(nodecat.EINVALID, "value is not serializable: %v", err)
	}
	return string(raw), nil
}

// normalize round-trips value through JSON into maps and slices so the
// projection tiers can inspect it without reflection.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, nodecat.Errorf(nodecat.EINVALID, "value is not serializable: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, nodecat.Errorf(nodecat.EINVALID, "value is not serializable: %v", err)
	}
	return v, nil
}

// recordList finds the record list inside an object: a conventional key
// first, then the lexicographically first slice-valued field so the choice
// is deterministic.
func recordList(m map[string]any) (string, []any, bool) {
	for _, key := range recordListKeys {
		if list, ok := m[key].([]any); ok {
			return key, list, true
		}
	}
	best := ""
	var bestList []any
	for k, v := range m {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		if best == "" || k < best {
			best, bestList = k, list
		}
	}
	if best == "" {
		return "", nil, false
	}
	return best, bestList, true
}

// project keeps only the given keys of a record. With summarized set, a
// bulky execution payload is replaced by a derived count and any other
// dropped fields are tallied.
func project(rec any, keys []string, summarized bool) any {
	m, ok := rec.(map[string]any)
	if !ok {
		return rec
	}
	out := make(map[string]any, len(keys)+1)
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	if !summarized {
		return out
	}
	if n, ok := executedNodeCount(m); ok {
		out["summary"] = fmt.Sprintf("%d nodes executed", n)
	} else if dropped := len(m) - len(out); dropped > 0 {
		out["summary"] = fmt.Sprintf("%d fields omitted", dropped)
	}
	return out
}

// executedNodeCount digs the per-node run data out of an execution payload.
func executedNodeCount(rec map[string]any) (int, bool) {
	data, ok := rec["data"].(map[string]any)
	if !ok {
		return 0, false
	}
	result, ok := data["resultData"].(map[string]any)
	if !ok {
		return 0, false
	}
	runData, ok := result["runData"].(map[string]any)
	if !ok {
		return 0, false
	}
	return len(runData), true
}
