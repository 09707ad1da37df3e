package authflow

import (
	"context"
	"sync"

	"github.com/membercore/authflow/autherr"
)

// Engine defines a public type used by authflow APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// The Engine owns the in-memory AuthState and the persisted-session cache;
// there is no module-level state, so independent engines can coexist (one
// per test, one per process in the app).
type Engine struct {
	config    Config
	store     Store
	identity  IdentityClient
	pin       PINVerifier
	biometric BiometricVerifier
	cookies   CookieBridge
	hydration *hydrationQueue
	audit     *auditDispatcher
	metrics   *Metrics

	mu      sync.Mutex
	state   AuthState
	session *PersistedSession
}

// Close shuts down the hydration worker and drains the audit dispatcher.
// In-flight hydration callers settle with a cancelled error.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.hydration != nil {
		e.hydration.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// State returns a snapshot of the current AuthState. The snapshot is a
// copy; pointers inside it must be treated as read-only.
func (e *Engine) State() AuthState {
	if e == nil {
		return AuthState{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// HydrationRequests exposes the hydration surface requests for the
// presentation layer: consume a request, drive the embedded browser to its
// URL, and report exactly one completion signal on it.
func (e *Engine) HydrationRequests() <-chan *HydrationRequest {
	return e.hydration.requests
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// commit applies one reducer transition under the engine mutex.
func (e *Engine) commit(transition func(AuthState) AuthState) {
	e.mu.Lock()
	e.state = transition(e.state)
	e.mu.Unlock()
}

// setSession updates the in-memory cache. Always called before the durable
// write, so a crash mid-persist can never leave the in-memory state behind
// the store in a way that loses a just-obtained token.
func (e *Engine) setSession(sess *PersistedSession) {
	e.mu.Lock()
	e.session = sess.Clone()
	e.mu.Unlock()
}

func (e *Engine) cachedSession() *PersistedSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// bestSession prefers the durable snapshot and falls back to the in-memory
// cache when the store read race-loses against a just-completed login.
func (e *Engine) bestSession(ctx context.Context) (*PersistedSession, *autherr.Error) {
	sess, err := e.store.LoadSession(ctx)
	if err != nil {
		// A cached snapshot can still serve the flow; the read failure is
		// surfaced only when there is no fallback.
		if cached := e.cachedSession(); cached != nil {
			return cached, nil
		}
		return nil, autherr.Ensure(err, autherr.IDStoreReadFailed)
	}
	if sess == nil {
		sess = e.cachedSession()
	}
	if sess == nil {
		return nil, autherr.New(autherr.IDNoSavedSession)
	}
	return sess, nil
}

// persistSession updates the cache first, then the store.
func (e *Engine) persistSession(ctx context.Context, sess *PersistedSession) *autherr.Error {
	e.setSession(sess)
	if err := e.store.SaveSession(ctx, sess); err != nil {
		return autherr.Ensure(err, autherr.IDStoreWriteFailed)
	}
	return nil
}
