package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/batch"
	"github.com/hweisong/tenderparse/bloom"
	"github.com/hweisong/tenderparse/goquery"
	tphttp "github.com/hweisong/tenderparse/http"
	"github.com/hweisong/tenderparse/sqlite"
	tpslog "github.com/hweisong/tenderparse/slog"
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

	// Services for end-to-end testing.
	RecordService tenderparse.RecordService
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
	cfg := tenderparse.DefaultConfig()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: cfg,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tenderparse"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tenderparse --help' to see available commands")
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

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TENDERPARSE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := newLogger(stderr)

	m.RecordService = sqlite.NewRecordService(m.DB)
	deps.DB = m.DB
	deps.Records = m.RecordService
	deps.Parser = tpslog.NewLoggingParser(goquery.NewParser(cfg), logger)

	// The parse command reads local files with --file; only a remote parse
	// and the batch command need a fetcher.
	needsFetcher := cmd == "batch" || (cmd == "parse" && cli.Parse.File == "")
	if needsFetcher {
		deps.Fetcher = tpslog.NewLoggingFetcher(newFetcher(cfg), logger)
		defer deps.Fetcher.Close()
	}

	if cmd == "batch" {
		seen := bloom.NewFilter(100000, 0.01)
		deps.Runner = &batch.Runner{
			Fetcher:     deps.Fetcher,
			Parser:      deps.Parser,
			Records:     deps.Records,
			Seen:        seen,
			Limiter:     batch.NewLimiter(cli.Batch.Interval),
			Concurrency: cli.Batch.Concurrency,
			RetryDelays: batch.DefaultRetryDelays(),
		}
		if err := deps.Runner.SeedFilter(ctx); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

func newFetcher(cfg tenderparse.Config) *tphttp.Fetcher {
	opts := []tphttp.Option{tphttp.WithTimeout(cfg.FetchTimeout)}
	if endpoint := os.Getenv("TENDERPARSE_TOKEN_ENDPOINT"); endpoint != "" {
		opts = append(opts, tphttp.WithTokenSource(tphttp.NewTokenManager(endpoint)))
	}
	if referer := os.Getenv("TENDERPARSE_REFERER"); referer != "" {
		opts = append(opts, tphttp.WithReferer(referer))
	}
	return tphttp.NewFetcher(opts...)
}

func newLogger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TENDERPARSE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("TENDERPARSE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tenderparse.db"
	}
	dir := filepath.Join(home, ".tenderparse")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "tenderparse.db")
}
