// Package rod provides credential harvesting through Chrome browser
// automation. It is the only package that embeds browser control; the
// rest of the cascade fetches over plain HTTP with harvested cookies.
package rod

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Recycling bounds. Chrome accumulates memory over time and the baseline
// never returns to initial levels even with proper page cleanup, so the
// browser is relaunched once either bound is hit.
const (
	DefaultMaxHarvests   = 75
	DefaultMaxBrowserAge = 30 * time.Minute
)

// BrowserManager hands out a shared browser instance to harvest sessions
// and relaunches it after a bounded number of sessions or a bounded
// lifetime, whichever comes first.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	launchedAt time.Time
	harvests   int

	maxHarvests int
	maxAge      time.Duration
	now         func() time.Time
	closed      atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxHarvests sets the number of harvest sessions before the browser
// is recycled. Defaults to DefaultMaxHarvests.
func WithMaxHarvests(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxHarvests = n
	}
}

// WithMaxBrowserAge sets how long a browser instance may live before it
// is recycled regardless of harvest count. Defaults to
// DefaultMaxBrowserAge.
func WithMaxBrowserAge(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxAge = d
	}
}

// NewBrowserManager creates a BrowserManager that launches a headless
// Chrome browser. Close must be called when the manager is no longer
// needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxHarvests: DefaultMaxHarvests,
		maxAge:      DefaultMaxBrowserAge,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}

	return bm, nil
}

// Browser returns the browser for one harvest session, recycling first
// when the session count or instance age has reached its bound. Each
// call counts as one session.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.harvests >= bm.maxHarvests || bm.now().Sub(bm.launchedAt) >= bm.maxAge {
		bm.recycleBrowser()
	}
	bm.harvests++

	return bm.browser
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts a new browser instance with stability flags.
// Must be called with mu held (or before the manager is shared).
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	bm.launchedAt = bm.now()
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one. If
// launching the new browser fails, the old browser is kept and retried
// on the next session. Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser := bm.browser
	oldLauncher := bm.launcher
	bm.browser = nil
	bm.launcher = nil

	if err := bm.launchBrowser(); err != nil {
		bm.browser = oldBrowser
		bm.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.harvests = 0
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
