package authflow

import (
	"context"
	"time"
)

// AccountStatus represents the lifecycle state of a member account as
// reported by the identity backend.
type AccountStatus uint8

const (
	// AccountActive is an exported constant or variable used by the session orchestrator.
	AccountActive AccountStatus = iota
	// AccountVendorPending is an exported constant or variable used by the session orchestrator.
	AccountVendorPending
	// AccountVendorRejected is an exported constant or variable used by the session orchestrator.
	AccountVendorRejected
	// AccountVendorSuspended is an exported constant or variable used by the session orchestrator.
	AccountVendorSuspended
)

// AuthMethod identifies which credential unlocked the current session.
// It is only meaningful for the unlock that just happened; a bootstrapped
// session reports MethodNone.
type AuthMethod uint8

const (
	// MethodNone is an exported constant or variable used by the session orchestrator.
	MethodNone AuthMethod = iota
	// MethodPassword is an exported constant or variable used by the session orchestrator.
	MethodPassword
	// MethodPIN is an exported constant or variable used by the session orchestrator.
	MethodPIN
	// MethodBiometric is an exported constant or variable used by the session orchestrator.
	MethodBiometric
)

// String describes the string operation and its observable behavior.
func (m AuthMethod) String() string {
	switch m {
	case MethodPassword:
		return "password"
	case MethodPIN:
		return "pin"
	case MethodBiometric:
		return "biometric"
	default:
		return "none"
	}
}

// User is the member profile returned by the identity backend.
type User struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	Status      AccountStatus `json:"status"`
	IsVendor    bool          `json:"is_vendor"`
}

// MembershipInfo carries the loyalty-program fields displayed while the
// session is locked (greeting and QR continuity).
type MembershipInfo struct {
	MemberNumber string `json:"member_number"`
	Tier         string `json:"tier"`
}

// QRCode is the member QR payload fetched after a successful login.
type QRCode struct {
	Data      string    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PersistedSession is the durable session snapshot owned by the secure
// store and cached once per process by the engine. It is created on the
// first successful password login, locked (never deleted) on logout, and
// deleted only when the backend reports the session invalid.
type PersistedSession struct {
	Token          string          `json:"token,omitempty"`
	RefreshToken   string          `json:"refresh_token,omitempty"`
	TokenExpiresAt time.Time       `json:"token_expires_at,omitempty"`
	TokenLoginURL  string          `json:"token_login_url,omitempty"`
	RESTNonce      string          `json:"rest_nonce,omitempty"`
	User           *User           `json:"user,omitempty"`
	Membership     *MembershipInfo `json:"membership,omitempty"`
	Locked         bool            `json:"locked"`
}

// Clone returns a deep copy so the in-memory cache and the value handed to
// the store never alias.
func (s *PersistedSession) Clone() *PersistedSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Membership != nil {
		m := *s.Membership
		out.Membership = &m
	}
	return &out
}

// Session is the payload returned by [IdentityClient.Login],
// [IdentityClient.Reauthenticate], and [IdentityClient.Register].
type Session struct {
	Token          string
	RefreshToken   string
	TokenExpiresAt time.Time
	TokenLoginURL  string
	RESTNonce      string
	User           *User
	Membership     *MembershipInfo
}

// Credentials is the input for [Engine.LoginWithPassword].
type Credentials struct {
	Identifier string
	Password   string
}

// RegisterRequest is the input for [Engine.Register]. Identifier and
// Password are required; vendor fields are optional.
type RegisterRequest struct {
	Identifier  string
	Password    string
	DisplayName string
	Vendor      bool
}

// Store is the secure session store consumed by the engine: durable
// key/value persistence for the session snapshot and secrets, with no
// business logic. Every call is atomic on its own; no transactions across
// calls are assumed. Backends live under store/ (memory, redis, bolt,
// securefile) and report failures through the store package sentinels.
type Store interface {
	// LoadSession returns the persisted snapshot, or (nil, nil) when none
	// has been saved.
	LoadSession(ctx context.Context) (*PersistedSession, error)
	// SaveSession replaces the persisted snapshot.
	SaveSession(ctx context.Context, sess *PersistedSession) error
	// ClearSession removes the persisted snapshot. Clearing an absent
	// snapshot is not an error.
	ClearSession(ctx context.Context) error

	// Secret returns the named secret, or store.ErrNotFound.
	Secret(ctx context.Context, name string) (string, error)
	// SetSecret writes the named secret.
	SetSecret(ctx context.Context, name, value string) error
	// DeleteSecret removes the named secret; removing an absent secret is
	// not an error.
	DeleteSecret(ctx context.Context, name string) error
}

// IdentityClient is the remote identity backend consumed by the engine.
// All methods are fallible network calls; the engine treats non-2xx
// responses and transport errors uniformly as failures to be normalized.
type IdentityClient interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	RefreshProfile(ctx context.Context, token string) (*User, error)
	Reauthenticate(ctx context.Context, refreshToken string) (*Session, error)
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, identifier string) error
	ResetPasswordWithCode(ctx context.Context, identifier, code, newPassword string) error
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	MemberQRCode(ctx context.Context, token string) (*QRCode, error)
}

// PINVerifier checks and manages the locally stored quick PIN. Verify
// returns false (not an error) on a plain mismatch.
type PINVerifier interface {
	Register(ctx context.Context, pin string) error
	Verify(ctx context.Context, pin string) (bool, error)
	Remove(ctx context.Context) error
	Configured(ctx context.Context) (bool, error)
}

// BiometricAvailability reports whether the platform sensor can be used and
// which kind it is ("face", "fingerprint", ...).
type BiometricAvailability struct {
	Available bool
	Kind      string
}

// BiometricVerifier prompts the platform biometric sensor. Authenticate
// returns false on user cancel and an error on hard platform failure.
type BiometricVerifier interface {
	Availability(ctx context.Context) (BiometricAvailability, error)
	Authenticate(ctx context.Context, prompt string) (bool, error)
}

// CookieResult is the outcome of a direct cookie-bridge attempt.
type CookieResult struct {
	OK     bool
	Status int
}

// CookieBridge derives a browser-cookie session on the content backend from
// the bearer token. A false OK with a usable TokenLoginURL triggers exactly
// one hydration pass before the direct attempt is retried.
type CookieBridge interface {
	EnsureCookieSession(ctx context.Context, sess *PersistedSession) (CookieResult, error)
}
