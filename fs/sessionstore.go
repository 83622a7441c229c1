// Package fs provides file-based durable storage for session state.
// Each domain's session is one JSON file with an explicit backup slot;
// writes are atomic (temp file + rename) and the previous state is backed
// up before any overwrite.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/newsgrab"
)

const backupSuffix = ".bak"

// Ensure SessionStore implements newsgrab.SessionStore at compile time.
var _ newsgrab.SessionStore = (*SessionStore)(nil)

// SessionStore persists sessions as JSON files under a base directory:
// <dir>/<domain>.json for the active state, <dir>/<domain>.json.bak for
// the backup slot.
type SessionStore struct {
	dir string
}

// NewSessionStore creates a SessionStore rooted at dir.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

func (s *SessionStore) activePath(domain string) string {
	return filepath.Join(s.dir, domain+".json")
}

func (s *SessionStore) backupPath(domain string) string {
	return s.activePath(domain) + backupSuffix
}

// Load returns the stored session for a domain.
func (s *SessionStore) Load(domain string) (*newsgrab.SessionState, error) {
	return s.read(s.activePath(domain), domain)
}

// LoadBackup returns the backup slot for a domain.
func (s *SessionStore) LoadBackup(domain string) (*newsgrab.SessionState, error) {
	return s.read(s.backupPath(domain), domain)
}

// LoadAll returns all stored active sessions.
func (s *SessionStore) LoadAll() ([]*newsgrab.SessionState, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sessions []*newsgrab.SessionState
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		domain := strings.TrimSuffix(name, ".json")
		session, err := s.Load(domain)
		if err != nil {
			// Skip unreadable files rather than failing the whole warm-up.
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Save durably persists the session. Any previous active state is copied
// to the backup slot first; a failure at any step leaves the previous
// active state and the backup intact.
func (s *SessionStore) Save(session *newsgrab.SessionState) error {
	if err := session.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	active := s.activePath(session.Domain)

	// Backup before overwrite.
	if prev, err := os.ReadFile(active); err == nil {
		if err := writeAtomic(s.backupPath(session.Domain), prev); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(active, data)
}

func (s *SessionStore) read(path, domain string) (*newsgrab.SessionState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, newsgrab.Errorf(newsgrab.ENOTFOUND, "no session stored for %q", domain)
	}
	if err != nil {
		return nil, err
	}

	var session newsgrab.SessionState
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, newsgrab.Errorf(newsgrab.EINTERNAL, "corrupt session file for %q: %v", domain, err)
	}
	return &session, nil
}

// writeAtomic writes data to path via a temp file and rename so readers
// never observe a partial write.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
