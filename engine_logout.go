package authflow

import (
	"context"

	"github.com/membercore/authflow/autherr"
)

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Logout is a soft lock: the snapshot stays in the store with its lock flag
// set, so a PIN or biometric unlock can restore access without a password.
// The snapshot is never deleted here; only a session-invalid verdict from
// the backend wipes it.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	sess, err := e.store.LoadSession(ctx)
	if err != nil {
		sess = e.cachedSession()
	}
	if sess == nil {
		sess = e.cachedSession()
	}

	if sess == nil {
		e.commit(reduceUnauthenticated)
		e.metricInc(MetricLogout)
		e.emitAudit(ctx, auditEventLogout, true, "", nil, nil)
		return nil
	}

	// Fold the freshest in-memory profile into the snapshot before locking,
	// so the lock screen greets with current data after a restart.
	state := e.State()
	if state.User != nil {
		sess.User = state.User
	}
	if state.Membership != nil {
		sess.Membership = state.Membership
	}
	sess.Locked = true

	perr := e.persistSession(ctx, sess)

	e.commit(func(s AuthState) AuthState {
		next := reduceLocked(s, sess)
		if perr != nil {
			next.Err = perr
		}
		return next
	})

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, perr == nil, userIDOf(sess), perr, nil)

	if perr != nil {
		return perr
	}
	return nil
}

// wipeSession is the hard teardown: store, PIN secret, and in-memory cache
// all go. Reached only when the backend says the session is invalid or the
// account is blocked; never from a user-initiated logout.
func (e *Engine) wipeSession(ctx context.Context, cause *autherr.Error) {
	_ = e.store.ClearSession(ctx)
	if e.pin != nil {
		_ = e.pin.Remove(ctx)
	}
	e.setSession(nil)

	e.commit(func(s AuthState) AuthState {
		next := reduceUnauthenticated(s)
		next.Err = cause
		return next
	})

	e.metricInc(MetricSessionWiped)
	e.emitAudit(ctx, auditEventSessionWiped, true, "", cause, nil)
}
