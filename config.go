package authflow

import (
	"errors"
	"time"
)

// Config defines a public type used by authflow APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session   SessionConfig
	Hydration HydrationConfig
	PIN       PINConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authflow APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// FetchQRCodeOnLogin controls the best-effort member QR fetch after a
	// successful password login or registration.
	FetchQRCodeOnLogin bool

	// TokenExpiryLeeway is subtracted from the token expiry when deciding
	// whether SessionToken must reauthenticate.
	TokenExpiryLeeway time.Duration
}

/*
====================================
HYDRATION CONFIG
====================================
*/

// HydrationConfig defines a public type used by authflow APIs.
//
// HydrationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HydrationConfig struct {
	// QueueBuffer bounds the number of callers that may wait behind the
	// active hydration task.
	QueueBuffer int

	// LoadTimeout bounds a single surface load. Zero disables the timeout,
	// reproducing the legacy behavior where an unresponsive load blocks the
	// queue until the user dismisses the surface.
	LoadTimeout time.Duration
}

/*
====================================
PIN CONFIG
====================================
*/

// PINConfig defines a public type used by authflow APIs.
//
// PINConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PINConfig struct {
	MinLength   int
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authflow APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authflow APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig returns the baseline configuration applied by [New]. Callers
// adjust individual sections and pass the result to [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			FetchQRCodeOnLogin: true,
			TokenExpiryLeeway:  30 * time.Second,
		},
		Hydration: HydrationConfig{
			QueueBuffer: 8,
			LoadTimeout: 2 * time.Minute,
		},
		PIN: PINConfig{
			MinLength:   4,
			Memory:      32 * 1024,
			Time:        2,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All sections are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Hydration.QueueBuffer < 0 {
		return errors.New("Hydration.QueueBuffer must not be negative")
	}
	if c.Hydration.LoadTimeout < 0 {
		return errors.New("Hydration.LoadTimeout must not be negative")
	}
	if c.Session.TokenExpiryLeeway < 0 {
		return errors.New("Session.TokenExpiryLeeway must not be negative")
	}
	if c.PIN.MinLength < 4 {
		return errors.New("PIN.MinLength must be at least 4")
	}
	if c.PIN.Memory < 8*1024 {
		return errors.New("PIN.Memory below hardening floor (8 MB)")
	}
	if c.PIN.Time < 1 || c.PIN.Parallelism < 1 {
		return errors.New("PIN cost parameters must be at least 1")
	}
	if c.PIN.SaltLength < 16 || c.PIN.KeyLength < 16 {
		return errors.New("PIN salt and key lengths must be at least 16 bytes")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}
