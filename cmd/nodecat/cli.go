package main

import (
	"context"
	"io"
	"time"

	"github.com/pszymczyk/nodecat"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Registry  nodecat.Registry
	Validator nodecat.ValidationService
	Budgeter  nodecat.Budgeter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	APIURL  string        `name:"api-url" help:"Node catalog API base URL" default:"http://localhost:5678" env:"NODECAT_API_URL"`
	TTL     time.Duration `help:"Catalog cache freshness window" default:"1h"`
	Verbose bool          `short:"v" help:"Enable debug logging"`

	List      ListCmd      `cmd:"" help:"List all known node types"`
	Validate  ValidateCmd  `cmd:"" help:"Validate node type references"`
	Check     CheckCmd     `cmd:"" help:"Validate all node types in a workflow file"`
	Shrink    ShrinkCmd    `cmd:"" help:"Shrink a JSON file to fit a token budget"`
	Summarize SummarizeCmd `cmd:"" help:"Print a low-fidelity summary of a JSON list file"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Types []string `arg:"" help:"Node types to validate"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Workflow string `arg:"" type:"existingfile" help:"Workflow JSON file"`
}

// ShrinkCmd is the "shrink" subcommand.
type ShrinkCmd struct {
	File   string `arg:"" type:"existingfile" help:"JSON file to shrink"`
	Budget int    `short:"b" default:"2000" help:"Token budget for the output"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON file to summarize"`
}
