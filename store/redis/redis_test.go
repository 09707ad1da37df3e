package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	authflow "github.com/membercore/authflow"
	"github.com/membercore/authflow/store"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "authflow-test"), mr
}

func TestLoadSessionEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	sess, err := s.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session from empty keyspace, got %+v", sess)
	}
}

func TestSaveLoadClearSession(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	in := &authflow.PersistedSession{
		Token:  "tok-1",
		Locked: true,
		User:   &authflow.User{ID: "member-1", Email: "m@example.test"},
		Membership: &authflow.MembershipInfo{
			MemberNumber: "M-100",
			Tier:         "gold",
		},
	}
	if err := s.SaveSession(ctx, in); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	out, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if out.Token != "tok-1" || !out.Locked {
		t.Fatalf("unexpected loaded session: %+v", out)
	}
	if out.Membership == nil || out.Membership.MemberNumber != "M-100" {
		t.Fatalf("expected membership to round-trip, got %+v", out.Membership)
	}

	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession error: %v", err)
	}
	cleared, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession after clear error: %v", err)
	}
	if cleared != nil {
		t.Fatalf("expected nil session after clear, got %+v", cleared)
	}
}

func TestSecrets(t *testing.T) {
	s, _ := newTestStore(t)
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
	if _, err := s.Secret(ctx, "pin_hash"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKeyPrefixing(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveSession(ctx, &authflow.PersistedSession{Token: "tok"}); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}
	if err := s.SetSecret(ctx, "pin_hash", "v"); err != nil {
		t.Fatalf("SetSecret error: %v", err)
	}

	if !mr.Exists("authflow-test:session") {
		t.Fatal("expected session under prefixed key")
	}
	if !mr.Exists("authflow-test:secret:pin_hash") {
		t.Fatal("expected secret under prefixed key")
	}
}

func TestUnavailableBackend(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	if _, err := s.LoadSession(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
