package main

import "fmt"

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	nodeTypes := deps.Validator.ListNodeTypes(deps.Ctx)

	if len(nodeTypes) == 0 {
		fmt.Fprintln(deps.Stdout, "No node types known.")
		return nil
	}

	for _, nt := range nodeTypes {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", nt.CanonicalName, nt.DisplayName, nt.Category)
	}

	return nil
}
