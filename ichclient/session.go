package ichclient

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoResult is returned by Take when the slot is empty.
var ErrNoResult = errors.New("no stored result")

// SessionStore is the cross-screen handoff slot. A slot is written whole by
// the submission screen and consumed exactly once by the result screen; Take
// removes the file so a second read starts the workflow over.
type SessionStore struct {
	mu  sync.Mutex
	dir string
}

func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

func (s *SessionStore) path(key string) string {
	h := sha1.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(h[:])+".json")
}

// Put overwrites the slot with the serialized payload.
func (s *SessionStore) Put(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write session slot: %w", err)
	}
	return nil
}

// Take reads and clears the slot. An empty slot yields ErrNoResult.
func (s *SessionStore) Take(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoResult
		}
		return nil, fmt.Errorf("read session slot: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("clear session slot: %w", err)
	}
	return data, nil
}

// Clear empties the slot without reading it.
func (s *SessionStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path(key))
}
