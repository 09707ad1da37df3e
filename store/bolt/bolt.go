// Package bolt provides an authflow.Store backed by a single-file bbolt
// database, the durable on-device backend.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	authflow "github.com/membercore/authflow"
	"github.com/membercore/authflow/store"
)

var (
	bucketSession = []byte("session")
	bucketSecrets = []byte("secrets")
	keySnapshot   = []byte("snapshot")
)

// Store defines a public type used by authflow APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	db *bbolt.DB
}

// New returns a Store over an already-opened bbolt database.
func New(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) a bbolt database at path and returns a
// Store over it.
func Open(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return New(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadSession describes the loadsession operation and its observable behavior.
func (s *Store) LoadSession(ctx context.Context) (*authflow.PersistedSession, error) {
	var sess *authflow.PersistedSession
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		data := b.Get(keySnapshot)
		if data == nil {
			return nil
		}
		sess = &authflow.PersistedSession{}
		return json.Unmarshal(data, sess)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// SaveSession describes the savesession operation and its observable behavior.
func (s *Store) SaveSession(ctx context.Context, sess *authflow.PersistedSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		return b.Put(keySnapshot, data)
	})
}

// ClearSession describes the clearsession operation and its observable behavior.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		return b.Delete(keySnapshot)
	})
}

// Secret describes the secret operation and its observable behavior.
func (s *Store) Secret(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSecrets)
		if b == nil {
			return fmt.Errorf("%s: %w", name, store.ErrNotFound)
		}
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%s: %w", name, store.ErrNotFound)
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSecret describes the setsecret operation and its observable behavior.
func (s *Store) SetSecret(ctx context.Context, name, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSecrets)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), []byte(value))
	})
}

// DeleteSecret describes the deletesecret operation and its observable behavior.
func (s *Store) DeleteSecret(ctx context.Context, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSecrets)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}
