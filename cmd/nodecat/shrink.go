package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Run executes the shrink command.
func (c *ShrinkCmd) Run(deps *Dependencies) error {
	value, err := readJSON(c.File)
	if err != nil {
		return err
	}

	out, err := deps.Budgeter.Shrink(value, c.Budget)
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	value, err := readJSON(c.File)
	if err != nil {
		return err
	}

	out, err := deps.Budgeter.Summarize(value)
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}

func readJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return value, nil
}
