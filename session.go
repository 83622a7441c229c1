package newsgrab

import (
	"context"
	"time"
)

// DefaultRenewalThreshold is how close to credential expiry a session may
// get before EnsureFresh triggers a renewal.
const DefaultRenewalThreshold = 7 * 24 * time.Hour

// Credential is one opaque session credential item, typically a cookie
// harvested by browser automation.
type Credential struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Domain    string    `json:"domain"`
	Path      string    `json:"path,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the credential is expired at t. Credentials
// without an expiry never expire.
func (c Credential) Expired(t time.Time) bool {
	return !c.ExpiresAt.IsZero() && !c.ExpiresAt.After(t)
}

// SessionState is the authenticated session for one domain. It is owned
// by the SessionManager, shared read-only by strategies during a fetch,
// and mutated only by the renewal routine.
type SessionState struct {
	Domain      string       `json:"domain"`
	Credentials []Credential `json:"credentials"`

	FetchedAt    time.Time `json:"fetchedAt"`
	RenewalDueAt time.Time `json:"renewalDueAt"`
}

// Validate returns an error if the session contains invalid fields.
func (s *SessionState) Validate() error {
	if s.Domain == "" {
		return Errorf(EINVALID, "session domain required")
	}
	if len(s.Credentials) == 0 {
		return Errorf(EINVALID, "session for %q has no credentials", s.Domain)
	}
	return nil
}

// Usable reports whether the session still has at least one non-expired
// credential at t.
func (s *SessionState) Usable(t time.Time) bool {
	for _, c := range s.Credentials {
		if !c.Expired(t) {
			return true
		}
	}
	return false
}

// ExpiresWithin reports whether any credential expires within d of t.
// Sessions whose credentials carry no expiry never report true.
func (s *SessionState) ExpiresWithin(t time.Time, d time.Duration) bool {
	for _, c := range s.Credentials {
		if !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(t.Add(d)) {
			return true
		}
	}
	return false
}

// SessionManager owns per-domain authenticated session lifecycle.
type SessionManager interface {
	// Get returns the domain's session, or nil if none is stored.
	Get(domain string) *SessionState

	// EnsureFresh returns a usable session, renewing first when any
	// credential's expiry falls within the renewal threshold or no
	// session exists. Renewal failure returns the stale session together
	// with an EUNAUTHORIZED error so callers can attempt with stale
	// credentials once before degrading to unauthenticated strategies.
	EnsureFresh(ctx context.Context, domain string) (*SessionState, error)

	// Renew performs a renewal: snapshot the current state to the backup
	// slot, harvest refreshed credentials via browser automation, and
	// atomically replace the active state only if the harvest yields a
	// non-empty, non-expired set. Concurrent calls for the same domain
	// collapse into one underlying operation.
	Renew(ctx context.Context, domain string) (*SessionState, error)
}

// CredentialHarvester drives a browser-automation session against a domain
// using existing credentials and returns the refreshed credential set.
// It is the only component that embeds browser control.
type CredentialHarvester interface {
	Harvest(ctx context.Context, domain string, existing []Credential) ([]Credential, error)
}

// SessionStore persists session state durably. Save must persist a backup
// of any previous state before overwriting, and a failed save must never
// delete the backup.
type SessionStore interface {
	// Load returns the stored session for a domain.
	// Returns ENOTFOUND if no session is stored.
	Load(domain string) (*SessionState, error)

	// LoadAll returns all stored sessions, for startup warm-up.
	LoadAll() ([]*SessionState, error)

	// Save durably persists the session, backing up any previous state
	// for the domain first.
	Save(session *SessionState) error

	// LoadBackup returns the backup slot for a domain.
	// Returns ENOTFOUND if no backup exists.
	LoadBackup(domain string) (*SessionState, error)
}
