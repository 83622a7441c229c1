package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.SessionManager = (*SessionManager)(nil)

// SessionManager is a mock implementation of newsgrab.SessionManager.
type SessionManager struct {
	GetFn         func(domain string) *newsgrab.SessionState
	EnsureFreshFn func(ctx context.Context, domain string) (*newsgrab.SessionState, error)
	RenewFn       func(ctx context.Context, domain string) (*newsgrab.SessionState, error)
}

func (m *SessionManager) Get(domain string) *newsgrab.SessionState {
	return m.GetFn(domain)
}

func (m *SessionManager) EnsureFresh(ctx context.Context, domain string) (*newsgrab.SessionState, error) {
	return m.EnsureFreshFn(ctx, domain)
}

func (m *SessionManager) Renew(ctx context.Context, domain string) (*newsgrab.SessionState, error) {
	return m.RenewFn(ctx, domain)
}

var _ newsgrab.SessionStore = (*SessionStore)(nil)

// SessionStore is a mock implementation of newsgrab.SessionStore.
type SessionStore struct {
	LoadFn       func(domain string) (*newsgrab.SessionState, error)
	LoadAllFn    func() ([]*newsgrab.SessionState, error)
	SaveFn       func(session *newsgrab.SessionState) error
	LoadBackupFn func(domain string) (*newsgrab.SessionState, error)
}

func (s *SessionStore) Load(domain string) (*newsgrab.SessionState, error) {
	return s.LoadFn(domain)
}

func (s *SessionStore) LoadAll() ([]*newsgrab.SessionState, error) {
	return s.LoadAllFn()
}

func (s *SessionStore) Save(session *newsgrab.SessionState) error {
	return s.SaveFn(session)
}

func (s *SessionStore) LoadBackup(domain string) (*newsgrab.SessionState, error) {
	return s.LoadBackupFn(domain)
}

var _ newsgrab.CredentialHarvester = (*CredentialHarvester)(nil)

// CredentialHarvester is a mock implementation of newsgrab.CredentialHarvester.
type CredentialHarvester struct {
	HarvestFn func(ctx context.Context, domain string, existing []newsgrab.Credential) ([]newsgrab.Credential, error)
}

func (h *CredentialHarvester) Harvest(ctx context.Context, domain string, existing []newsgrab.Credential) ([]newsgrab.Credential, error) {
	return h.HarvestFn(ctx, domain, existing)
}
