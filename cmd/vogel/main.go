package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/crawl"
	"github.com/fwojciec/vogel/fs"
	"github.com/fwojciec/vogel/gocache"
	"github.com/fwojciec/vogel/goquery"
	vogelhttp "github.com/fwojciec/vogel/http"
	"github.com/fwojciec/vogel/rod"
	vslog "github.com/fwojciec/vogel/slog"
	"github.com/fwojciec/vogel/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened when --db is set.
	DB *sqlite.DB

	// Fetcher overrides the fetcher selected by flags. Used in tests.
	Fetcher vogel.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
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
		kong.Name("vogel"),
		kong.Description("Scrape the NABU bird portraits into structured records."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'vogel --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.ListPath = cli.ListPath
	deps.DataDir = cli.DataDir

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set VOGEL_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Species = sqlite.NewSpeciesService(m.DB)
	}

	pages := fs.NewFileStore(cli.DataDir, fs.PagesDir)
	writers := []vogel.SpeciesWriter{
		vslog.NewLoggingSpeciesWriter(fs.NewSpeciesWriter(filepath.Join(cli.DataDir, fs.RecordsDir)), logger),
	}
	if deps.Species != nil {
		writers = append(writers, vslog.NewLoggingSpeciesWriter(deps.Species, logger))
	}

	deps.Scraper = &crawl.Scraper{
		Listings:  vslog.NewLoggingListingExtractor(goquery.NewListingExtractor(), logger),
		Extractor: goquery.NewSpeciesExtractor(logger),
		Pages:     pages,
		Source:    pages,
		Writers:   writers,
		Limiter:   crawl.NewDomainLimiter(cli.Rate),
		BaseURL:   cli.BaseURL,
		Logger:    logger,
	}

	if cmd == "list" || cmd == "download" || cmd == "scrape" {
		fetcher, err := m.newFetcher(&cli.Globals, stderr)
		if err != nil {
			return err
		}
		cached := gocache.NewCachingFetcher(fetcher, gocache.DefaultTTL)
		defer func() {
			logger.Debug("close fetch cache", "pages", cached.Len())
			cached.Close()
		}()

		deps.Scraper.Fetcher = vslog.NewLoggingFetcher(cached, logger)
	}

	return kongCtx.Run(deps)
}

// newFetcher returns the configured fetcher: headless Chrome with --render,
// plain HTTP otherwise.
func (m *Main) newFetcher(g *Globals, stderr io.Writer) (vogel.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if g.Render {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(g.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return fetcher, nil
	}

	opts := []vogelhttp.Option{vogelhttp.WithTimeout(g.Timeout)}
	if g.UserAgent != "" {
		opts = append(opts, vogelhttp.WithUserAgent(g.UserAgent))
	}
	return vogelhttp.NewFetcher(opts...), nil
}
