// Package session is the single source of truth for "is a user signed in,
// and as whom". It owns the bearer token issued by the backend at login,
// derives identity from the token's claims, and persists the token under
// the "token" storage key. The token is decoded, never verified: the
// backend is the trust boundary and rejects bad tokens with a 401 on every
// protected call.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"ecobazaar/internal/localstore"
)

// Identity is what the token's payload claims about the signed-in user.
type Identity struct {
	Subject   string
	Roles     []string
	ExpiresAt int64 // epoch seconds
}

// HasRole reports whether the identity carries role.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Store holds the session state for this process. Each process ("tab") has
// an independent copy reconciled with other processes only through the
// shared storage directory.
type Store struct {
	storage *localstore.Store
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	token    string
	identity *Identity
	subs     []func()
}

// New hydrates session state from storage. A persisted token that fails to
// decode or is already expired is cleared rather than surfaced: the user is
// simply signed out. Expiry is checked only here; a token expiring
// mid-session stays accepted locally and the backend's 401 takes over.
func New(storage *localstore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger, now: time.Now}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	token, ok, err := s.storage.GetString(localstore.KeyToken)
	if err != nil {
		s.logger.Warn("could not read persisted token", zap.Error(err))
		return
	}
	if !ok || token == "" {
		return
	}
	id, err := decodeToken(token)
	if err != nil {
		s.logger.Warn("invalid token found in storage", zap.Error(err))
		s.clearPersisted()
		return
	}
	if id.ExpiresAt*1000 <= s.now().UnixMilli() {
		s.logger.Info("persisted token expired, signing out",
			zap.String("subject", id.Subject))
		s.clearPersisted()
		return
	}
	s.mu.Lock()
	s.token = token
	s.identity = &id
	s.mu.Unlock()
}

// Login decodes and adopts a freshly issued token, replacing any prior
// session. A token that fails to decode is logged and dropped; the caller
// is not handed an error and existing state is left alone.
func (s *Store) Login(token string) {
	id, err := decodeToken(token)
	if err != nil {
		s.logger.Error("failed to decode token during login", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.token = token
	s.identity = &id
	s.mu.Unlock()
	if err := s.storage.SetString(localstore.KeyToken, token); err != nil {
		s.logger.Warn("could not persist token", zap.Error(err))
	}
	s.logger.Info("signed in", zap.String("subject", id.Subject), zap.Strings("roles", id.Roles))
	s.notify()
}

// Logout clears the token, derived identity, and the persisted seller
// status. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()
	s.clearPersisted()
	s.notify()
}

func (s *Store) clearPersisted() {
	if err := s.storage.Delete(localstore.KeyToken); err != nil {
		s.logger.Warn("could not clear persisted token", zap.Error(err))
	}
	if err := s.storage.Delete(localstore.KeyUserStatus); err != nil {
		s.logger.Warn("could not clear persisted seller status", zap.Error(err))
	}
}

// Token returns the bearer token, or "" when anonymous. Implements the
// token source consumed by the API client.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the current identity; ok is false when anonymous.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// HasRole reports whether the signed-in identity carries role.
func (s *Store) HasRole(role string) bool {
	id, ok := s.Identity()
	return ok && id.HasRole(role)
}

// SetUserStatus persists the seller approval state returned by login.
func (s *Store) SetUserStatus(status string) {
	if err := s.storage.SetString(localstore.KeyUserStatus, status); err != nil {
		s.logger.Warn("could not persist seller status", zap.Error(err))
	}
}

// UserStatus returns the persisted seller approval state, "" when unset.
func (s *Store) UserStatus() string {
	status, _, err := s.storage.GetString(localstore.KeyUserStatus)
	if err != nil {
		s.logger.Warn("could not read seller status", zap.Error(err))
		return ""
	}
	return status
}

// Subscribe registers a callback fired after every login and logout.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Rehydrate re-reads persisted state, for callers reacting to a foreign
// storage change reported by the storage watcher.
func (s *Store) Rehydrate() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()
	s.hydrate()
	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// decodeToken extracts identity claims from the token's payload segment
// without signature verification. The backend signs {sub, role, exp} with a
// singular role claim; a roles array is accepted too and wins when present.
func decodeToken(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, err
	}

	id := Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		id.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Unix()
	}
	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				id.Roles = append(id.Roles, s)
			}
		}
	}
	if len(id.Roles) == 0 {
		if role, ok := claims["role"].(string); ok && role != "" {
			id.Roles = []string{role}
		}
	}
	return id, nil
}
