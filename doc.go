// Package authflow reconciles three independent login methods (password,
// quick PIN, biometric) against a single persisted session, manages a
// dual-credential backend (a bearer token for the REST surface and a
// browser-cookie session for the content surface), and recovers from token
// expiry without forcing the user back to a password prompt.
//
// The package is designed for concurrent UI workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authflow is the public surface. It exposes [Engine], [Builder], [Config],
// the [AuthState] snapshot, and value types (PersistedSession, AuditEvent,
// MetricsSnapshot, etc.). Collaborators that own real I/O — the secure
// session store, the identity backend, the cookie bridge, the credential
// verifiers, and the embedded hydration surface — are injected behind
// interfaces and never constructed here.
//
// # What this package must NOT do
//
//   - Render anything. The hydration "modal" is a request event consumed by
//     the presentation layer through [Engine.HydrationRequests].
//   - Throw across the reducer boundary. State-mutating flows always leave
//     AuthState consistent (loading cleared, normalized error recorded).
//   - Persist plaintext secrets. PIN material only ever crosses the store
//     boundary as an Argon2id hash.
//
// # Session model
//
// Logout is soft: the persisted session is locked, never deleted, so the
// last known user and membership survive for greeting and QR display. The
// session is deleted only when the identity backend reports it invalid,
// which wipes secrets and returns the machine to the unauthenticated phase.
package authflow
