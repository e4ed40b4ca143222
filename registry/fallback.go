package registry

import "github.com/pszymczyk/nodecat"

// FallbackNodeTypes returns the minimal built-in dataset applied when the
// remote is unreachable and no stale or persisted data exists. It covers
// the node types almost every workflow touches, so validation stays useful
// in the fully degraded state.
func FallbackNodeTypes() []nodecat.NodeType {
	return []nodecat.NodeType{
		{
			CanonicalName: "n8n-nodes-base.code",
			DisplayName:   "Code",
			Description:   "Run custom JavaScript or Python code",
			Category:      "transform",
			Version:       2,
		},
		{
			CanonicalName: "n8n-nodes-base.httpRequest",
			DisplayName:   "HTTP Request",
			Description:   "Makes an HTTP request and returns the response data",
			Category:      "output",
			Version:       4,
		},
		{
			CanonicalName: "n8n-nodes-base.if",
			DisplayName:   "If",
			Description:   "Route items to different branches based on conditions",
			Category:      "transform",
			Version:       2,
		},
		{
			CanonicalName: "n8n-nodes-base.manualTrigger",
			DisplayName:   "Manual Trigger",
			Description:   "Runs the flow on clicking a button",
			Category:      "trigger",
			Version:       1,
		},
		{
			CanonicalName: "n8n-nodes-base.merge",
			DisplayName:   "Merge",
			Description:   "Merges data of multiple streams",
			Category:      "transform",
			Version:       3,
		},
		{
			CanonicalName: "n8n-nodes-base.scheduleTrigger",
			DisplayName:   "Schedule Trigger",
			Description:   "Triggers the workflow on a given schedule",
			Category:      "trigger",
			Version:       1,
		},
		{
			CanonicalName: "n8n-nodes-base.set",
			DisplayName:   "Edit Fields (Set)",
			Description:   "Modify, add, or remove item fields",
			Category:      "input",
			Version:       3,
		},
		{
			CanonicalName: "n8n-nodes-base.webhook",
			DisplayName:   "Webhook",
			Description:   "Starts the workflow when a webhook is called",
			Category:      "trigger",
			Version:       2,
		},
	}
}
