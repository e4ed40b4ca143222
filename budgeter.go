package nodecat

// Budgeter shrinks structured values so their serialized form fits an
// estimated token budget.
type Budgeter interface {
	// Shrink serializes value, degrading it in tiers until the output
	// fits within budget tokens. When no lossless tier fits, the output
	// is hard-truncated and carries a detectable truncation marker.
	// Deterministic: equal inputs produce byte-identical output.
	Shrink(value any, budget int) (string, error)

	// Summarize maps a list-shaped value to a fixed low-fidelity
	// overview regardless of size: total count, minimal per-record
	// projection, and the pagination cursor when present.
	Summarize(value any) (string, error)
}
