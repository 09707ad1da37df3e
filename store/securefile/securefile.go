// Package securefile provides an authflow.Store that keeps the session snapshot
// and secrets in a single encrypted flat file: an Argon2id-derived key
// sealing a JSON payload with XChaCha20-Poly1305. It fills the "secure
// credential store" role on platforms without a usable OS keystore.
package securefile

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	authflow "github.com/membercore/authflow"
	"github.com/membercore/authflow/store"
)

const (
	saltSize = 16

	kdfTime    uint32 = 2
	kdfMemory  uint32 = 64 * 1024
	kdfThreads uint8  = 1
)

// ErrCorrupt is returned when the file exists but cannot be authenticated
// or decoded with the supplied passphrase.
var ErrCorrupt = errors.New("securefile: corrupt or wrong passphrase")

type payload struct {
	Session *authflow.PersistedSession `json:"session,omitempty"`
	Secrets map[string]string          `json:"secrets,omitempty"`
}

// Store defines a public type used by authflow APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	path       string
	passphrase []byte

	mu sync.Mutex
}

// New returns a Store persisting to path, sealed with passphrase. The file
// is created lazily on first write.
func New(path string, passphrase []byte) *Store {
	return &Store{path: path, passphrase: append([]byte(nil), passphrase...)}
}

func (s *Store) load() (*payload, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &payload{Secrets: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if len(raw) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, ErrCorrupt
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	box := raw[saltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return nil, ErrCorrupt
	}

	var p payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil, ErrCorrupt
	}
	if p.Secrets == nil {
		p.Secrets = map[string]string{}
	}
	return &p, nil
}

func (s *Store) save(p *payload) error {
	plain, err := json.Marshal(p)
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return err
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plain, nil)

	// Write-then-rename keeps the previous snapshot intact on a crash.
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := os.WriteFile(tmp, out, 0600); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, kdfTime, kdfMemory, kdfThreads, chacha20poly1305.KeySize)
}

func (s *Store) update(mutate func(*payload)) error {
	p, err := s.load()
	if err != nil {
		return err
	}
	mutate(p)
	return s.save(p)
}

// LoadSession describes the loadsession operation and its observable behavior.
func (s *Store) LoadSession(ctx context.Context) (*authflow.PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	return p.Session.Clone(), nil
}

// SaveSession describes the savesession operation and its observable behavior.
func (s *Store) SaveSession(ctx context.Context, sess *authflow.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *payload) { p.Session = sess.Clone() })
}

// ClearSession describes the clearsession operation and its observable behavior.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *payload) { p.Session = nil })
}

// Secret describes the secret operation and its observable behavior.
func (s *Store) Secret(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := p.Secrets[name]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

// SetSecret describes the setsecret operation and its observable behavior.
func (s *Store) SetSecret(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *payload) { p.Secrets[name] = value })
}

// DeleteSecret describes the deletesecret operation and its observable behavior.
func (s *Store) DeleteSecret(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *payload) { delete(p.Secrets, name) })
}
