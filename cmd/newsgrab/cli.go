package main

import (
	"context"
	"io"
	stdslog "log/slog"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/cache"
	"github.com/fwojciec/newsgrab/cascade"
	"github.com/fwojciec/newsgrab/sqlite"
	"github.com/fwojciec/newsgrab/validate"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       *stdslog.Logger
	Cache        *cache.Cache
	Selectors    *sqlite.SelectorStore
	SessionStore newsgrab.SessionStore
	Sessions     newsgrab.SessionManager
	Cascade      *cascade.Cascade
}

func (d *Dependencies) cleaner() newsgrab.Cleaner {
	return validate.NewCleaner()
}

func (d *Dependencies) validator(minWords int) newsgrab.Validator {
	return validate.NewValidator(validate.WithMinWordCount(minWords))
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log strategy attempts and session activity"`

	CacheMaxEntries  int           `default:"10000" env:"NEWSGRAB_CACHE_MAX_ENTRIES" help:"Selector cache capacity"`
	CacheMaxFailures int           `default:"3" env:"NEWSGRAB_CACHE_MAX_FAILURES" help:"Consecutive failures before a selector is evicted"`
	CacheTTL         time.Duration `default:"720h" env:"NEWSGRAB_CACHE_TTL" help:"Drop selectors not validated within this window"`
	RenewalThreshold time.Duration `default:"168h" env:"NEWSGRAB_RENEWAL_THRESHOLD" help:"Renew sessions expiring within this window"`

	Extract ExtractCmd `cmd:"" help:"Extract article content from URLs"`
	Cache   CacheCmd   `cmd:"" help:"Inspect and manage the selector cache"`
	Session SessionCmd `cmd:"" help:"Inspect and renew authenticated sessions"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs []string `arg:"" help:"Article URLs to extract"`

	Auth         bool          `help:"Allow authenticated retries with stored sessions"`
	Concurrency  int           `short:"c" default:"8" help:"Concurrent extraction limit"`
	PerDomain    int64         `default:"2" help:"Concurrent requests per domain"`
	RPS          float64       `default:"1.0" help:"Direct fetch rate per domain (requests per second)"`
	Deadline     time.Duration `default:"2m" help:"Per-URL extraction deadline"`
	FetchTimeout time.Duration `default:"30s" help:"Single HTTP fetch timeout"`
	MaxRetries   int           `default:"2" help:"Retries for transient fetch failures"`
	MinWords     int           `default:"150" help:"Minimum word count for valid content"`
	ArchiveURL   string        `env:"NEWSGRAB_ARCHIVE_URL" help:"Archival mirror base URL (empty disables the archival strategy)"`
}

// CacheCmd groups selector cache subcommands.
type CacheCmd struct {
	List       CacheListCmd       `cmd:"" help:"List cached selectors"`
	Invalidate CacheInvalidateCmd `cmd:"" help:"Remove a domain's cached selector"`
}

// CacheListCmd is the "cache list" subcommand.
type CacheListCmd struct{}

// CacheInvalidateCmd is the "cache invalidate" subcommand.
type CacheInvalidateCmd struct {
	Domain string `arg:"" help:"Domain whose selector to remove"`
}

// SessionCmd groups session subcommands.
type SessionCmd struct {
	Show  SessionShowCmd  `cmd:"" help:"Show a domain's stored session"`
	Renew SessionRenewCmd `cmd:"" help:"Force a session renewal for a domain"`
}

// SessionShowCmd is the "session show" subcommand.
type SessionShowCmd struct {
	Domain string `arg:"" help:"Domain to show"`
}

// SessionRenewCmd is the "session renew" subcommand.
type SessionRenewCmd struct {
	Domain string `arg:"" help:"Domain to renew"`
}
