package pincode

import (
	"context"
	"errors"
	"testing"

	"github.com/membercore/authflow/store"
)

type fakeSecrets struct {
	values map[string]string
}

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{values: make(map[string]string)}
}

func (f *fakeSecrets) Secret(_ context.Context, name string) (string, error) {
	v, ok := f.values[name]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (f *fakeSecrets) SetSecret(_ context.Context, name, value string) error {
	f.values[name] = value
	return nil
}

func (f *fakeSecrets) DeleteSecret(_ context.Context, name string) error {
	delete(f.values, name)
	return nil
}

func newTestVerifier(t *testing.T) (*Verifier, *fakeSecrets) {
	t.Helper()
	secrets := newFakeSecrets()
	v, err := NewVerifier(testConfig(), secrets)
	if err != nil {
		t.Fatalf("NewVerifier error: %v", err)
	}
	return v, secrets
}

func TestRegisterAndVerify(t *testing.T) {
	v, secrets := newTestVerifier(t)
	ctx := context.Background()

	if err := v.Register(ctx, "4921"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if stored := secrets.values[SecretName]; stored == "" || stored == "4921" {
		t.Fatalf("expected hashed secret, got %q", stored)
	}

	ok, err := v.Verify(ctx, "4921")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected pin verification to succeed")
	}

	ok, err = v.Verify(ctx, "0000")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong pin verification to fail")
	}
}

func TestVerifyUnregistered(t *testing.T) {
	v, _ := newTestVerifier(t)

	if _, err := v.Verify(context.Background(), "4921"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestRegisterReplacesPrevious(t *testing.T) {
	v, _ := newTestVerifier(t)
	ctx := context.Background()

	if err := v.Register(ctx, "1111"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := v.Register(ctx, "2222"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	ok, err := v.Verify(ctx, "1111")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected old pin to stop verifying after replacement")
	}

	ok, err = v.Verify(ctx, "2222")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected new pin to verify")
	}
}

func TestRemoveIdempotent(t *testing.T) {
	v, _ := newTestVerifier(t)
	ctx := context.Background()

	if err := v.Register(ctx, "4921"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := v.Remove(ctx); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := v.Remove(ctx); err != nil {
		t.Fatalf("expected second Remove to be a no-op, got %v", err)
	}

	configured, err := v.Configured(ctx)
	if err != nil {
		t.Fatalf("Configured error: %v", err)
	}
	if configured {
		t.Fatal("expected pin to be unconfigured after removal")
	}
}

func TestConfigured(t *testing.T) {
	v, _ := newTestVerifier(t)
	ctx := context.Background()

	configured, err := v.Configured(ctx)
	if err != nil {
		t.Fatalf("Configured error: %v", err)
	}
	if configured {
		t.Fatal("expected fresh verifier to report unconfigured")
	}

	if err := v.Register(ctx, "4921"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	configured, err = v.Configured(ctx)
	if err != nil {
		t.Fatalf("Configured error: %v", err)
	}
	if !configured {
		t.Fatal("expected verifier to report configured after registration")
	}
}

func TestRegisterShortPIN(t *testing.T) {
	v, secrets := newTestVerifier(t)

	if err := v.Register(context.Background(), "12"); !errors.Is(err, ErrPINTooShort) {
		t.Fatalf("expected ErrPINTooShort, got %v", err)
	}
	if _, ok := secrets.values[SecretName]; ok {
		t.Fatal("expected no secret to be written for rejected pin")
	}
}
