package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/and161185/auto-marketplace/internal/crypto/sealbox"
	"github.com/and161185/auto-marketplace/internal/model"
)

// Record is the persisted form of an active session.
type Record struct {
	IDToken      string        `json:"id_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresAt    time.Time     `json:"expires_at"`
	Session      model.Session `json:"session"`
}

// Store persists the active session between runs.
type Store interface {
	// Load returns the stored record, or nil when there is none.
	Load() (*Record, error)
	Save(rec *Record) error
	// Clear removes the stored record; clearing an empty store is not an error.
	Clear() error
}

const (
	sessionFile = "session.bin"
	keyFile     = "session.key"
	sessionAAD  = "automarketplace/session/v1"
)

// DefaultDir returns $XDG_CONFIG_HOME/automarketplace, falling back to ~/.config.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "automarketplace")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "automarketplace")
}

// FileStore keeps the session sealed on disk next to a random local key.
// Both files are created with mode 0600 in the same directory, so the
// sealing detects tampering and keeps a copied session.bin unreadable on
// its own; anyone who can read the whole directory can open the session.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore constructs a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

var _ Store = (*FileStore)(nil)

// Load implements Store.
func (s *FileStore) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	key, err := s.key(false)
	if err != nil {
		return nil, err
	}
	plain, err := sealbox.Open(key, []byte(sessionAAD), blob)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(plain, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

// Save implements Store.
func (s *FileStore) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	key, err := s.key(true)
	if err != nil {
		return err
	}
	plain, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	blob, err := sealbox.Seal(key, []byte(sessionAAD), plain)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	tmp := filepath.Join(s.dir, sessionFile+".tmp")
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, filepath.Join(s.dir, sessionFile))
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// key loads the master key and derives the session key; create makes a new master if absent.
func (s *FileStore) key(create bool) ([]byte, error) {
	path := filepath.Join(s.dir, keyFile)
	master, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && create:
		if master, err = sealbox.NewKey(); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, master, 0o600); err != nil {
			return nil, fmt.Errorf("write session key: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("read session key: %w", err)
	}
	return sealbox.DeriveKey(master, "session")
}

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

var _ Store = (*MemoryStore)(nil)

// Load implements Store.
func (s *MemoryStore) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, nil
	}
	c := *s.rec
	return &c, nil
}

// Save implements Store.
func (s *MemoryStore) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rec
	s.rec = &c
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.rec = nil
	s.mu.Unlock()
	return nil
}
