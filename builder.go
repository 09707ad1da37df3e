package authflow

import (
	"github.com/membercore/authflow/pincode"
)

// Builder defines a public type used by authflow APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	store     Store
	identity  IdentityClient
	pin       PINVerifier
	biometric BiometricVerifier
	cookies   CookieBridge
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore may return an error when input validation, dependency calls, or security checks fail.
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(st Store) *Builder {
	b.store = st
	return b
}

// WithIdentityClient describes the withidentityclient operation and its observable behavior.
//
// WithIdentityClient may return an error when input validation, dependency calls, or security checks fail.
// WithIdentityClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityClient(client IdentityClient) *Builder {
	b.identity = client
	return b
}

// WithCookieBridge describes the withcookiebridge operation and its observable behavior.
//
// WithCookieBridge may return an error when input validation, dependency calls, or security checks fail.
// WithCookieBridge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCookieBridge(bridge CookieBridge) *Builder {
	b.cookies = bridge
	return b
}

// WithPINVerifier describes the withpinverifier operation and its observable behavior.
//
// WithPINVerifier may return an error when input validation, dependency calls, or security checks fail.
// WithPINVerifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPINVerifier(v PINVerifier) *Builder {
	b.pin = v
	return b
}

// WithBiometricVerifier describes the withbiometricverifier operation and its observable behavior.
//
// WithBiometricVerifier may return an error when input validation, dependency calls, or security checks fail.
// WithBiometricVerifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBiometricVerifier(v BiometricVerifier) *Builder {
	b.biometric = v
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, ErrStoreRequired
	}

	if b.identity == nil {
		return nil, ErrIdentityClientRequired
	}

	engine := &Engine{
		config:   cfg,
		store:    b.store,
		identity: b.identity,
		state: AuthState{
			Phase: PhaseInitializing,
		},
	}

	engine.cookies = b.cookies
	engine.biometric = b.biometric

	// -------- PIN VERIFIER --------
	if b.pin != nil {
		engine.pin = b.pin
	} else {
		pv, err := pincode.NewVerifier(pincode.Config{
			MinLength:   cfg.PIN.MinLength,
			Memory:      cfg.PIN.Memory,
			Time:        cfg.PIN.Time,
			Parallelism: cfg.PIN.Parallelism,
			SaltLength:  cfg.PIN.SaltLength,
			KeyLength:   cfg.PIN.KeyLength,
		}, b.store)
		if err != nil {
			return nil, err
		}
		engine.pin = pv
	}

	engine.hydration = newHydrationQueue(cfg.Hydration)
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
