package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/htmltomarkdown"
	harvesthttp "github.com/fwojciec/harvest/http"
	"github.com/fwojciec/harvest/rod"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
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
	// Config holds the extraction limits. Set before calling Run().
	Config harvest.Config

	// Fetcher replaces the fetcher selected by flags, for end-to-end testing.
	Fetcher harvest.Fetcher

	// SQLite page cache, opened when --cache is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Config: harvest.DefaultConfig(),
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
		kong.Name("harvest"),
		kong.Description("Extract structured, deduplicated content from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'harvest --help' to see available commands")
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

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cli.LogLevel)}))

	cfg := m.Config
	if cli.Timeout > 0 {
		cfg.ArrayTimeout = cli.Timeout
		cfg.SelectiveTimeout = cli.Timeout
		cfg.MarkdownTimeout = cli.Timeout
		cfg.ProductTimeout = cli.Timeout
		cfg.AnalyzeTimeout = cli.Timeout
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher, err = openFetcher(cli.Fetcher, cli.Timeout)
		if err != nil {
			if cli.Fetcher == fetcherRod {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --fetcher=http")
			}
			return err
		}
		defer fetcher.Close()
	}

	if cli.Cache != "" {
		m.DB = sqlite.NewDB(cli.Cache)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set HARVEST_CACHE to use a different cache path\n")
			return fmt.Errorf("failed to open cache at %q: %w", cli.Cache, err)
		}
		defer m.Close()
		cache := sqlite.NewCachingFetcher(fetcher, m.DB, cli.CacheTTL)
		if n, err := cache.Prune(ctx); err != nil {
			logger.Warn("cache prune failed", "err", err)
		} else if n > 0 {
			logger.Debug("cache pruned", "pages", n)
		}
		fetcher = cache
	}

	if cli.Output != "" {
		deps.Store = fs.NewFileStore(filepath.Dir(cli.Output), filepath.Base(cli.Output))
	}

	deps.Service = &crawl.Service{
		Fetcher:   harvestslog.NewLoggingFetcher(fetcher, logger),
		Limiter:   crawl.NewHostThrottle(cfg.RequestsPerSecond),
		Converter: htmltomarkdown.NewConverter(),
		Config:    cfg,
		Decorate: func(p harvest.Pipeline) harvest.Pipeline {
			return harvestslog.NewLoggingPipeline(p, logger)
		},
	}

	return kongCtx.Run(deps)
}

// Fetcher names accepted by --fetcher.
const (
	fetcherRod  = "rod"
	fetcherHTTP = "http"
)

func openFetcher(name string, timeout time.Duration) (harvest.Fetcher, error) {
	switch name {
	case fetcherHTTP:
		var opts []harvesthttp.Option
		if timeout > 0 {
			opts = append(opts, harvesthttp.WithTimeout(timeout))
		}
		return harvesthttp.NewFetcher(opts...), nil
	default:
		var opts []rod.Option
		if timeout > 0 {
			opts = append(opts, rod.WithFetchTimeout(timeout))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
