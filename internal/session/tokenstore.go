// ABOUTME: Persistence for the session token between runs
// ABOUTME: File store in the XDG config directory plus an in-memory store

package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore keeps the raw session token across restarts
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in session.json under the config directory
type FileTokenStore struct {
	configDir string
}

type tokenData struct {
	Token string `json:"token"`
}

// NewFileTokenStore creates a store rooted at configDir
func NewFileTokenStore(configDir string) *FileTokenStore {
	return &FileTokenStore{configDir: configDir}
}

// Path returns the location of the token file
func (s *FileTokenStore) Path() string {
	return filepath.Join(s.configDir, "session.json")
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		// Corrupt file, treat as logged out
		return "", nil
	}
	return td.Token, nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(tokenData{Token: token})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.configDir, ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore keeps the token for the life of the process
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates a store, optionally seeded with a token
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
