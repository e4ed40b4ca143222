package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/pszymczyk/nodecat"
	"github.com/pszymczyk/nodecat/budget"
	nchttp "github.com/pszymczyk/nodecat/http"
	"github.com/pszymczyk/nodecat/registry"
	ncslog "github.com/pszymczyk/nodecat/slog"
	"github.com/pszymczyk/nodecat/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the snapshot store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Registry  nodecat.Registry
	Validator nodecat.ValidationService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("nodecat"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'nodecat --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open the snapshot database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set NODECAT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	fetcher := nchttp.NewCatalogClient(cli.APIURL, nchttp.WithRateLimit(1.0))
	cache := registry.NewCache(fetcher,
		registry.WithTTL(cli.TTL),
		registry.WithSnapshotStore(sqlite.NewSnapshotService(m.DB)),
		registry.WithLogger(logger),
	)
	m.Registry = ncslog.NewLoggingRegistry(cache, logger)
	m.Validator = ncslog.NewLoggingValidator(nodecat.NewValidator(m.Registry), logger)

	deps.Registry = m.Registry
	deps.Validator = m.Validator
	deps.Budgeter = budget.NewShrinker()

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("NODECAT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "nodecat.db"
	}
	dir := filepath.Join(home, ".nodecat")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "nodecat.db")
}
