package pincode

import (
	"context"
	"errors"

	"github.com/membercore/authflow/store"
)

// SecretName is the store secret under which the PIN hash is persisted.
const SecretName = "pin_hash"

// SecretStore is the slice of the secure store the verifier needs: named
// secret persistence. Any authflow store satisfies it.
type SecretStore interface {
	Secret(ctx context.Context, name string) (string, error)
	SetSecret(ctx context.Context, name, value string) error
	DeleteSecret(ctx context.Context, name string) error
}

// Verifier is a store-backed PIN verifier: it keeps only the Argon2id hash
// in the secure store and satisfies the engine's PINVerifier contract.
type Verifier struct {
	hasher *Hasher
	store  SecretStore
}

// NewVerifier describes the newverifier operation and its observable behavior.
//
// NewVerifier may return an error when input validation, dependency calls, or security checks fail.
func NewVerifier(cfg Config, st SecretStore) (*Verifier, error) {
	h, err := NewHasher(cfg)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("pincode: store required")
	}
	return &Verifier{hasher: h, store: st}, nil
}

// Register hashes the PIN and persists the hash, replacing any previous one.
func (v *Verifier) Register(ctx context.Context, pin string) error {
	hash, err := v.hasher.Hash(pin)
	if err != nil {
		return err
	}
	return v.store.SetSecret(ctx, SecretName, hash)
}

// Verify returns false (not an error) on a plain mismatch and
// store.ErrNotFound when no PIN has been registered.
func (v *Verifier) Verify(ctx context.Context, pin string) (bool, error) {
	hash, err := v.store.Secret(ctx, SecretName)
	if err != nil {
		return false, err
	}
	return v.hasher.Verify(pin, hash)
}

// Remove deletes the stored hash. Removing an absent PIN is a no-op.
func (v *Verifier) Remove(ctx context.Context) error {
	return v.store.DeleteSecret(ctx, SecretName)
}

// Configured reports whether a PIN hash is currently stored.
func (v *Verifier) Configured(ctx context.Context) (bool, error) {
	_, err := v.store.Secret(ctx, SecretName)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
