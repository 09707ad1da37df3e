package memory

import (
	"context"
	"errors"
	"testing"

	authflow "github.com/membercore/authflow"
	"github.com/membercore/authflow/store"
)

func TestLoadSessionEmpty(t *testing.T) {
	s := New()

	sess, err := s.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session from empty store, got %+v", sess)
	}
}

func TestSaveAndLoadSession(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := &authflow.PersistedSession{
		Token: "tok-1",
		User:  &authflow.User{ID: "member-1", Email: "m@example.test"},
	}
	if err := s.SaveSession(ctx, in); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	out, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if out.Token != "tok-1" || out.User == nil || out.User.ID != "member-1" {
		t.Fatalf("unexpected loaded session: %+v", out)
	}
}

func TestLoadSessionIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := &authflow.PersistedSession{Token: "tok-1", User: &authflow.User{ID: "member-1"}}
	if err := s.SaveSession(ctx, in); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	// Mutating a loaded snapshot must not leak into the store.
	first, _ := s.LoadSession(ctx)
	first.User.ID = "tampered"

	second, _ := s.LoadSession(ctx)
	if second.User.ID != "member-1" {
		t.Fatalf("expected store to be isolated from caller mutation, got %q", second.User.ID)
	}

	// Same for the value handed to SaveSession.
	in.Token = "tampered"
	third, _ := s.LoadSession(ctx)
	if third.Token != "tok-1" {
		t.Fatalf("expected store to clone on save, got %q", third.Token)
	}
}

func TestClearSession(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveSession(ctx, &authflow.PersistedSession{Token: "tok"}); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}
	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession error: %v", err)
	}
	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("expected clearing an absent session to succeed, got %v", err)
	}

	sess, _ := s.LoadSession(ctx)
	if sess != nil {
		t.Fatalf("expected nil session after clear, got %+v", sess)
	}
}

func TestSecrets(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Secret(ctx, "pin_hash"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent secret, got %v", err)
	}

	if err := s.SetSecret(ctx, "pin_hash", "phc-string"); err != nil {
		t.Fatalf("SetSecret error: %v", err)
	}

	v, err := s.Secret(ctx, "pin_hash")
	if err != nil {
		t.Fatalf("Secret error: %v", err)
	}
	if v != "phc-string" {
		t.Fatalf("unexpected secret value: %q", v)
	}

	if err := s.DeleteSecret(ctx, "pin_hash"); err != nil {
		t.Fatalf("DeleteSecret error: %v", err)
	}
	if err := s.DeleteSecret(ctx, "pin_hash"); err != nil {
		t.Fatalf("expected deleting an absent secret to succeed, got %v", err)
	}
	if _, err := s.Secret(ctx, "pin_hash"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
