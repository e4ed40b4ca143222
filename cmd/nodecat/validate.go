package main

import "fmt"

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	var unknown int
	for _, typ := range c.Types {
		result := deps.Validator.ValidateType(deps.Ctx, typ)
		switch {
		case result.Valid:
			fmt.Fprintf(deps.Stdout, "ok       %s\n", typ)
		case result.Suggestion != "":
			unknown++
			fmt.Fprintf(deps.Stdout, "unknown  %s (did you mean %q?)\n", typ, result.Suggestion)
		default:
			unknown++
			fmt.Fprintf(deps.Stdout, "unknown  %s\n", typ)
		}
	}

	if unknown > 0 {
		return fmt.Errorf("%d unknown node type(s)", unknown)
	}
	return nil
}
