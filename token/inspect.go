// Package token inspects bearer tokens issued by the identity backend.
// The backend signs its tokens; this client only needs the registered
// claims, so parsing is deliberately unverified (signature checking happens
// server-side on every call that uses the token).
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

var parser = jwt.NewParser()

// Expiry extracts the exp claim from a raw bearer token without verifying
// the signature.
func Expiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Fresh reports whether the token is usable for at least leeway more. An
// unparseable token or a token without an exp claim is treated as fresh:
// the backend is the authority and will reject it if it is not.
func Fresh(raw string, now time.Time, leeway time.Duration) bool {
	if raw == "" {
		return false
	}
	exp, err := Expiry(raw)
	if err != nil {
		return true
	}
	return now.Add(leeway).Before(exp)
}
