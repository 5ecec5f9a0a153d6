package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/unsaidapp/unsaid/pkg/crypto"
)

const (
	sessionFile = "session.bin"
	keyFile     = "session.key"
)

// Store is the single source of truth for "is a user logged in, and as whom".
//
// The session is persisted as one sealed file, so the token and identity can
// never be written independently: either both survive a restart or neither
// does. Writes go through a temp file and an os.Rename swap.
type Store struct {
	mu     sync.RWMutex
	path   string
	sealer *crypto.Sealer
	cur    Session
}

// NewStore creates a session store persisting under dir. The device key used
// to seal the session at rest lives next to the session file and is created
// on first use.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("session: create dir: %w", err)
	}
	key, err := crypto.LoadOrCreateKey(filepath.Join(dir, keyFile))
	if err != nil {
		return nil, err
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		return nil, err
	}
	return &Store{
		path:   filepath.Join(dir, sessionFile),
		sealer: sealer,
	}, nil
}

// DefaultDir returns the directory next to the executable, matching where the
// client keeps its settings. Falls back to the working directory.
func DefaultDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// Restore reads the persisted session at startup. Absent or malformed data
// yields the empty (logged-out) session; Restore never fails the process.
func (st *Store) Restore() Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cur = st.readDisk()
	return st.cur.clone()
}

func (st *Store) readDisk() Session {
	blob, err := os.ReadFile(st.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("session: read persisted session", "err", err)
		}
		return Session{}
	}

	plain, err := st.sealer.Open(blob)
	if err != nil {
		// Key rotated or file tampered with: treat as logged out.
		slog.Warn("session: unseal persisted session", "err", err)
		return Session{}
	}

	var s Session
	if err := yaml.Unmarshal(plain, &s); err != nil {
		slog.Warn("session: parse persisted session", "err", err)
		return Session{}
	}
	if err := s.Validate(); err != nil {
		slog.Warn("session: persisted session incomplete, discarding")
		return Session{}
	}
	return s
}

// Set overwrites the current session and persists it atomically. A partial
// session (token without identity or vice versa) is rejected. Setting the
// empty session is equivalent to Clear.
func (st *Store) Set(s Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Empty() {
		return st.Clear()
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.writeDisk(s); err != nil {
		return err
	}
	st.cur = s.clone()
	return nil
}

func (st *Store) writeDisk(s Session) error {
	plain, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	blob, err := st.sealer.Seal(plain)
	if err != nil {
		return err
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session: swap: %w", err)
	}
	return nil
}

// Clear removes the session from memory and from disk. Safe to call when
// already logged out.
func (st *Store) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cur = Session{}
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// Current returns a snapshot of the in-memory session (or the empty session).
func (st *Store) Current() Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.cur.clone()
}
