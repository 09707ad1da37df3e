// Package memory provides a mutex-guarded in-process authflow.Store, used in
// tests and previews where nothing must survive the process.
package memory

import (
	"context"
	"sync"

	authflow "github.com/membercore/authflow"
	"github.com/membercore/authflow/store"
)

// Store defines a public type used by authflow APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	mu      sync.Mutex
	session *authflow.PersistedSession
	secrets map[string]string
}

// New describes the new operation and its observable behavior.
func New() *Store {
	return &Store{secrets: make(map[string]string)}
}

// LoadSession describes the loadsession operation and its observable behavior.
func (s *Store) LoadSession(ctx context.Context) (*authflow.PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone(), nil
}

// SaveSession describes the savesession operation and its observable behavior.
func (s *Store) SaveSession(ctx context.Context, sess *authflow.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess.Clone()
	return nil
}

// ClearSession describes the clearsession operation and its observable behavior.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// Secret describes the secret operation and its observable behavior.
func (s *Store) Secret(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.secrets[name]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

// SetSecret describes the setsecret operation and its observable behavior.
func (s *Store) SetSecret(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[name] = value
	return nil
}

// DeleteSecret describes the deletesecret operation and its observable behavior.
func (s *Store) DeleteSecret(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, name)
	return nil
}
