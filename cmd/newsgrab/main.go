package main

import (
	"context"
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/bloom"
	"github.com/fwojciec/newsgrab/cache"
	"github.com/fwojciec/newsgrab/cascade"
	newsfs "github.com/fwojciec/newsgrab/fs"
	"github.com/fwojciec/newsgrab/gemini"
	newshttp "github.com/fwojciec/newsgrab/http"
	"github.com/fwojciec/newsgrab/htmltomarkdown"
	"github.com/fwojciec/newsgrab/rod"
	"github.com/fwojciec/newsgrab/session"
	newsslog "github.com/fwojciec/newsgrab/slog"
	"github.com/fwojciec/newsgrab/sqlite"
	"github.com/fwojciec/newsgrab/trafilatura"
	"google.golang.org/genai"
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
	// Selector database path. Set before calling Run().
	DBPath string

	// Session directory path. Set before calling Run().
	SessionDir string

	// SQLite database holding the selector snapshot.
	DB *sqlite.DB

	// Services exposed for end-to-end testing.
	Cache    *cache.Cache
	Sessions newsgrab.SessionManager

	browser *rod.BrowserManager
	fetcher *newshttp.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		SessionDir: defaultSessionDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.fetcher != nil {
		_ = m.fetcher.Close()
	}
	if m.browser != nil {
		_ = m.browser.Close()
	}
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
		kong.Name("newsgrab"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsgrab --help' to see available commands")
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

	logLevel := stdslog.LevelWarn
	if cli.Verbose {
		logLevel = stdslog.LevelInfo
	}
	deps.Logger = stdslog.New(stdslog.NewTextHandler(stderr, &stdslog.HandlerOptions{Level: logLevel}))

	// Open the selector database and restore the cache snapshot.
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set NEWSGRAB_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	selectorStore := sqlite.NewSelectorStore(m.DB)
	m.Cache = cache.New(
		cache.WithMaxEntries(cli.CacheMaxEntries),
		cache.WithMaxFailures(cli.CacheMaxFailures),
		cache.WithTTL(cli.CacheTTL),
	)
	if err := cache.Restore(ctx, m.Cache, selectorStore); err != nil {
		return fmt.Errorf("failed to restore selector cache: %w", err)
	}

	deps.Cache = m.Cache
	deps.Selectors = selectorStore
	deps.SessionStore = newsfs.NewSessionStore(m.SessionDir)

	switch cmd {
	case "extract":
		if err := m.wireExtract(ctx, cli, deps, stderr); err != nil {
			return err
		}
	case "session":
		if len(args) > 1 && args[1] == "renew" {
			if err := m.wireHarvester(cli, deps, stderr); err != nil {
				return err
			}
		}
	}

	return kongCtx.Run(deps)
}

// wireExtract assembles the cascade for the extract command.
func (m *Main) wireExtract(ctx context.Context, cli *CLI, deps *Dependencies, stderr io.Writer) error {
	m.fetcher = newshttp.NewFetcher(newshttp.WithTimeout(cli.Extract.FetchTimeout))

	extractor := trafilatura.NewExtractor()
	delays := cascade.RetryDelays(cli.Extract.MaxRetries)

	c := &cascade.Cascade{
		Cache:                m.Cache,
		Converter:            htmltomarkdown.NewConverter(),
		Cleaner:              deps.cleaner(),
		Validator:            deps.validator(cli.Extract.MinWords),
		RateLimiter:          cascade.NewDomainLimiter(cli.Extract.RPS),
		Duplicates:           bloom.NewFilter(expectedArticles, duplicateFalsePositiveRate),
		Deadline:             cli.Extract.Deadline,
		Concurrency:          cli.Extract.Concurrency,
		PerDomainConcurrency: cli.Extract.PerDomain,
	}

	c.CachedSelector = &cascade.CachedSelectorStrategy{Fetcher: m.fetcher, Sessions: m.fetcher, RetryDelays: delays}
	c.Heuristic = &cascade.HeuristicStrategy{Fetcher: m.fetcher, Sessions: m.fetcher, Extractor: extractor, RetryDelays: delays}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		c.Synthesis = &cascade.SynthesisStrategy{
			Fetcher:     m.fetcher,
			Sessions:    m.fetcher,
			Synthesizer: gemini.NewSynthesizer(client),
			RetryDelays: delays,
		}
	} else {
		fmt.Fprintln(stderr, "GEMINI_API_KEY not set; selector synthesis disabled")
	}

	if cli.Extract.ArchiveURL != "" {
		c.Archival = &cascade.ArchivalStrategy{
			Archive:     newshttp.NewArchiveClient(cli.Extract.ArchiveURL),
			Fetcher:     m.fetcher,
			Extractor:   extractor,
			RetryDelays: delays,
		}
	}

	if cli.Extract.Auth {
		if err := m.wireHarvester(cli, deps, stderr); err != nil {
			return err
		}
		c.Sessions = deps.Sessions
	}

	if cli.Verbose {
		c.CachedSelector = newsslog.NewLoggingStrategy(c.CachedSelector, deps.Logger)
		c.Heuristic = newsslog.NewLoggingStrategy(c.Heuristic, deps.Logger)
		if c.Synthesis != nil {
			c.Synthesis = newsslog.NewLoggingStrategy(c.Synthesis, deps.Logger)
		}
		if c.Archival != nil {
			c.Archival = newsslog.NewLoggingStrategy(c.Archival, deps.Logger)
		}
	}

	deps.Cascade = c
	return nil
}

// wireHarvester starts the browser-backed session manager.
func (m *Main) wireHarvester(cli *CLI, deps *Dependencies, stderr io.Writer) error {
	if deps.Sessions != nil {
		return nil
	}

	browser, err := rod.NewBrowserManager()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for session renewal")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.browser = browser

	manager := session.NewManager(
		deps.SessionStore,
		rod.NewHarvester(browser),
		session.WithRenewalThreshold(cli.RenewalThreshold),
	)
	if err := manager.WarmUp(); err != nil {
		return fmt.Errorf("failed to load stored sessions: %w", err)
	}

	m.Sessions = newsslog.NewLoggingSessionManager(manager, deps.Logger)
	deps.Sessions = m.Sessions
	return nil
}

// Dedup filter sizing for a single run.
const (
	expectedArticles           = 100000
	duplicateFalsePositiveRate = 0.01
)

func defaultDBPath() string {
	if path := os.Getenv("NEWSGRAB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsgrab.db"
	}
	dir := filepath.Join(home, ".newsgrab")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "newsgrab.db")
}

func defaultSessionDir() string {
	if dir := os.Getenv("NEWSGRAB_SESSIONS"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sessions"
	}
	return filepath.Join(home, ".newsgrab", "sessions")
}

// flushCache writes the live cache back to the snapshot store with a
// short independent deadline, so a canceled run still persists learned
// selectors.
func flushCache(deps *Dependencies) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := cache.Flush(ctx, deps.Cache, deps.Selectors); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to persist selector cache: %s\n", newsgrab.ErrorMessage(err))
	}
}
