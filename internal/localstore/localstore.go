// Package localstore is the client-side durable state layer. It mirrors the
// browser localStorage contract of the original storefront: a flat namespace
// of string keys, each holding one serialized document, overwritten in full
// on every mutation. Keys in use are "token" (raw bearer token), "cartItems"
// (JSON array of cart lines), and "userStatus" (seller approval state).
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Well-known storage keys, matching the original client byte for byte.
const (
	KeyToken      = "token"
	KeyCartItems  = "cartItems"
	KeyUserStatus = "userStatus"
)

// Store is a per-profile key-value store backed by one file per key.
// Concurrent processes sharing a profile directory are not coordinated
// beyond last-write-wins, same as browser tabs sharing localStorage;
// Watcher exists for callers that want to re-hydrate on foreign writes.
type Store struct {
	dir    string
	logger *zap.Logger

	mu        sync.Mutex
	lastWrite map[string]time.Time
}

// Open creates the profile directory if needed and returns a Store over it.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &Store{
		dir:       dir,
		logger:    logger,
		lastWrite: make(map[string]time.Time),
	}, nil
}

// Dir returns the profile directory backing this store.
func (s *Store) Dir() string { return s.dir }

// SetString overwrites key with a raw string value.
func (s *Store) SetString(key, value string) error {
	return s.write(key, []byte(value))
}

// GetString reads a raw string value. The second return is false when the
// key is absent.
func (s *Store) GetString(key string) (string, bool, error) {
	data, ok, err := s.read(key)
	if !ok || err != nil {
		return "", ok, err
	}
	return string(data), true, nil
}

// Set serializes v as JSON and overwrites key with it.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.write(key, data)
}

// Get deserializes the value at key into out. Returns false with no error
// when the key is absent.
func (s *Store) Get(key string, out any) (bool, error) {
	data, ok, err := s.read(key)
	if !ok || err != nil {
		return ok, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key. Removing an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.markWrite(key)
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// write is a full overwrite via temp file + rename so a concurrent reader
// never observes a half-written document.
func (s *Store) write(key string, data []byte) error {
	s.markWrite(key)
	tmp, err := os.CreateTemp(s.dir, key+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.logger.Debug("storage write", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *Store) markWrite(key string) {
	s.mu.Lock()
	s.lastWrite[key] = time.Now()
	s.mu.Unlock()
}

// wroteRecently reports whether this store mutated key within window.
// The watcher uses it to drop events caused by our own writes.
func (s *Store) wroteRecently(key string, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastWrite[key]
	return ok && time.Since(t) < window
}
