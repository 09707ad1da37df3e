package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}
	return raw
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{"exp": exp.Unix()})

	got, err := Expiry(raw)
	if err != nil {
		t.Fatalf("Expiry error: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, got)
	}
}

func TestExpiryMissingClaim(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "member-1"})

	if _, err := Expiry(raw); !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
}

func TestExpiryUnparseable(t *testing.T) {
	if _, err := Expiry("opaque-session-token"); err == nil {
		t.Fatal("expected parse error for opaque token")
	}
}

func TestFresh(t *testing.T) {
	now := time.Now()

	fresh := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	stale := signedToken(t, jwt.MapClaims{"exp": now.Add(10 * time.Second).Unix()})
	expired := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})

	if !Fresh(fresh, now, 30*time.Second) {
		t.Fatal("expected token expiring in an hour to be fresh")
	}
	if Fresh(stale, now, 30*time.Second) {
		t.Fatal("expected token inside the leeway window to be stale")
	}
	if Fresh(expired, now, 30*time.Second) {
		t.Fatal("expected expired token to be stale")
	}
}

func TestFreshOpaqueToken(t *testing.T) {
	// The backend is the authority for tokens this client cannot read.
	if !Fresh("opaque-session-token", time.Now(), 30*time.Second) {
		t.Fatal("expected opaque token to be treated as fresh")
	}
}

func TestFreshEmptyToken(t *testing.T) {
	if Fresh("", time.Now(), 0) {
		t.Fatal("expected empty token to be stale")
	}
}
