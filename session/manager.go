// Package session manages per-domain authenticated session lifecycle:
// loading persisted cookie sets, detecting upcoming expiry, and renewing
// credentials through a browser-automation harvester with
// backup-before-overwrite semantics.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/newsgrab"
	"golang.org/x/sync/singleflight"
)

// Ensure Manager implements newsgrab.SessionManager at compile time.
var _ newsgrab.SessionManager = (*Manager)(nil)

// Manager owns the in-memory session map and drives renewal. Renewals for
// the same domain are single-flighted; the map lock is never held across
// harvesting.
type Manager struct {
	store     newsgrab.SessionStore
	harvester newsgrab.CredentialHarvester
	threshold time.Duration
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	sessions map[string]*newsgrab.SessionState
}

// Option configures a Manager.
type Option func(*Manager)

// WithRenewalThreshold sets how close to credential expiry EnsureFresh
// triggers renewal. Defaults to newsgrab.DefaultRenewalThreshold (7 days).
func WithRenewalThreshold(d time.Duration) Option {
	return func(m *Manager) { m.threshold = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager backed by the given store and harvester.
func NewManager(store newsgrab.SessionStore, harvester newsgrab.CredentialHarvester, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		harvester: harvester,
		threshold: newsgrab.DefaultRenewalThreshold,
		now:       time.Now,
		sessions:  make(map[string]*newsgrab.SessionState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WarmUp loads all persisted sessions into memory. Call once at startup.
func (m *Manager) WarmUp() error {
	sessions, err := m.store.LoadAll()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range sessions {
		m.sessions[s.Domain] = s
	}
	return nil
}

// Get returns a copy of the domain's session, or nil if none is stored.
func (m *Manager) Get(domain string) *newsgrab.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[domain]
	if !ok {
		return nil
	}
	cp := *s
	cp.Credentials = append([]newsgrab.Credential(nil), s.Credentials...)
	return &cp
}

// EnsureFresh returns a usable session for the domain, renewing first when
// any credential expires within the threshold or no session exists. When
// renewal fails but a stale session exists, the stale session is returned
// together with an EUNAUTHORIZED error so the caller can try it once.
func (m *Manager) EnsureFresh(ctx context.Context, domain string) (*newsgrab.SessionState, error) {
	current := m.Get(domain)
	now := m.now().UTC()

	needsRenewal := current == nil ||
		!current.Usable(now) ||
		current.ExpiresWithin(now, m.threshold)
	if !needsRenewal {
		return current, nil
	}

	renewed, err := m.Renew(ctx, domain)
	if err != nil {
		if current != nil {
			return current, newsgrab.Errorf(newsgrab.EUNAUTHORIZED,
				"session renewal for %q failed, stale credentials returned: %s", domain, newsgrab.ErrorMessage(err))
		}
		return nil, err
	}
	return renewed, nil
}

// Renew harvests refreshed credentials for the domain and atomically
// replaces the active state. Concurrent calls for the same domain collapse
// into one underlying harvest; all callers observe the same outcome. On
// failure the previous state, and its durable backup, remain untouched.
func (m *Manager) Renew(ctx context.Context, domain string) (*newsgrab.SessionState, error) {
	v, err, _ := m.group.Do(domain, func() (any, error) {
		return m.renew(ctx, domain)
	})
	if err != nil {
		return nil, err
	}
	return v.(*newsgrab.SessionState), nil
}

func (m *Manager) renew(ctx context.Context, domain string) (*newsgrab.SessionState, error) {
	existing := m.Get(domain)

	var existingCreds []newsgrab.Credential
	if existing != nil {
		existingCreds = existing.Credentials
	}

	harvested, err := m.harvester.Harvest(ctx, domain, existingCreds)
	if err != nil {
		return nil, newsgrab.Errorf(newsgrab.EUNAUTHORIZED, "harvest for %q failed: %s", domain, errMessage(err))
	}

	now := m.now().UTC()
	fresh := &newsgrab.SessionState{
		Domain:       domain,
		Credentials:  harvested,
		FetchedAt:    now,
		RenewalDueAt: renewalDue(harvested, now, m.threshold),
	}
	if err := fresh.Validate(); err != nil {
		return nil, newsgrab.Errorf(newsgrab.EUNAUTHORIZED, "harvest for %q yielded no credentials", domain)
	}
	if !fresh.Usable(now) {
		return nil, newsgrab.Errorf(newsgrab.EUNAUTHORIZED, "harvest for %q yielded only expired credentials", domain)
	}

	// The store backs up the previous state before overwriting; a failed
	// save leaves both the previous state and its backup intact.
	if err := m.store.Save(fresh); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[domain] = fresh
	m.mu.Unlock()

	cp := *fresh
	cp.Credentials = append([]newsgrab.Credential(nil), fresh.Credentials...)
	return &cp, nil
}

// renewalDue computes when the session should next be renewed: the
// earliest credential expiry minus the threshold. Sessions without any
// expiring credential fall back to one threshold from now.
func renewalDue(creds []newsgrab.Credential, now time.Time, threshold time.Duration) time.Time {
	var earliest time.Time
	for _, c := range creds {
		if c.ExpiresAt.IsZero() {
			continue
		}
		if earliest.IsZero() || c.ExpiresAt.Before(earliest) {
			earliest = c.ExpiresAt
		}
	}
	if earliest.IsZero() {
		return now.Add(threshold)
	}
	return earliest.Add(-threshold)
}

func errMessage(err error) string {
	if msg := newsgrab.ErrorMessage(err); msg != "Internal error." {
		return msg
	}
	return err.Error()
}
