package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pszymczyk/nodecat"
)

// workflow is the subset of a workflow file consumed by the check command.
type workflow struct {
	Nodes []nodecat.WorkflowNode `json:"nodes"`
}

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Workflow)
	if err != nil {
		return fmt.Errorf("failed to read workflow file: %w", err)
	}

	var wf workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("failed to parse workflow file %q: %w", c.Workflow, err)
	}

	invalid := deps.Validator.ValidateBatch(deps.Ctx, wf.Nodes)

	if len(invalid) == 0 {
		fmt.Fprintf(deps.Stdout, "All %d node(s) use known types.\n", len(wf.Nodes))
		return nil
	}

	for _, entry := range invalid {
		if entry.Suggestion != "" {
			fmt.Fprintf(deps.Stdout, "%s: unknown type %q (did you mean %q?)\n", entry.Name, entry.Type, entry.Suggestion)
		} else {
			fmt.Fprintf(deps.Stdout, "%s: unknown type %q\n", entry.Name, entry.Type)
		}
	}

	return fmt.Errorf("%d node(s) use unknown types", len(invalid))
}
