// Package redis provides an authflow.Store backed by a Redis keyspace. It is
// the natural backend when the orchestrator is embedded server-side (kiosk
// fleets, integration rigs) rather than on a device.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	authflow "github.com/membercore/authflow"
	"github.com/membercore/authflow/store"
)

// Store defines a public type used by authflow APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	client *redis.Client
	prefix string
}

// New describes the new operation and its observable behavior.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "authflow"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) sessionKey() string {
	return s.prefix + ":session"
}

func (s *Store) secretKey(name string) string {
	return s.prefix + ":secret:" + name
}

// LoadSession describes the loadsession operation and its observable behavior.
func (s *Store) LoadSession(ctx context.Context) (*authflow.PersistedSession, error) {
	raw, err := s.client.Get(ctx, s.sessionKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var sess authflow.PersistedSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// SaveSession describes the savesession operation and its observable behavior.
func (s *Store) SaveSession(ctx context.Context, sess *authflow.PersistedSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// ClearSession describes the clearsession operation and its observable behavior.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.client.Del(ctx, s.sessionKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Secret describes the secret operation and its observable behavior.
func (s *Store) Secret(ctx context.Context, name string) (string, error) {
	v, err := s.client.Get(ctx, s.secretKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return v, nil
}

// SetSecret describes the setsecret operation and its observable behavior.
func (s *Store) SetSecret(ctx context.Context, name, value string) error {
	if err := s.client.Set(ctx, s.secretKey(name), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// DeleteSecret describes the deletesecret operation and its observable behavior.
func (s *Store) DeleteSecret(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.secretKey(name)).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}
