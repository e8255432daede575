package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/relistan/shorten"
	"github.com/relistan/shorten/bloom"
	"github.com/relistan/shorten/shortener"
	shortenslog "github.com/relistan/shorten/slog"
	"github.com/relistan/shorten/sqlite"
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

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Link store for end-to-end testing.
	Store shorten.LinkStore
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
		kong.Name("shorten"),
		kong.Description("URL shortener backed by an expanding bloom filter."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'shorten --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	command := kongCtx.Selected().Name
	deps.Logger = newLogger(stderr, cli.Debug, command == "serve")

	filter, err := bloom.NewFilter(cli.Filter.Config())
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", shorten.ErrorMessage(err))
		return err
	}
	deps.Filter = filter

	// filter-sim runs entirely in memory.
	if command == "filter-sim" {
		return kongCtx.Run(deps)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SHORTEN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	store := shortenslog.NewLoggingLinkStore(sqlite.NewLinkStore(m.DB), deps.Logger)
	m.Store = store

	svc := &shortener.Service{
		Store:   store,
		Filter:  filter,
		BaseURL: cli.BaseURL,
	}

	// Lookups never consult the filter, so only writers pay for warming.
	if command != "lookup" {
		n, err := svc.Warm(ctx, store)
		if err != nil {
			return fmt.Errorf("failed to warm filter: %w", err)
		}
		deps.Logger.Debug("filter warmed", "hashes", n, "segments", filter.Len())
	}

	deps.DB = m.DB
	deps.Store = store
	deps.Shortener = shortenslog.NewLoggingShortenerService(svc, deps.Logger)

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w. Long-running commands log at Info;
// one-shot commands only report warnings unless debug is set.
func newLogger(w io.Writer, debug, serving bool) *slog.Logger {
	level := slog.LevelWarn
	if serving {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("SHORTEN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "shorten.db"
	}
	dir := filepath.Join(home, ".shorten")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "shorten.db")
}
