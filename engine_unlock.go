package authflow

import (
	"context"
	"errors"
	"time"

	"github.com/membercore/authflow/autherr"
	"github.com/membercore/authflow/store"
)

// LoginWithPIN describes the loginwithpin operation and its observable behavior.
//
// LoginWithPIN may return an error when input validation, dependency calls, or security checks fail.
// LoginWithPIN does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// LoginWithPIN unlocks the persisted session after a local PIN check. It
// never talks to the password endpoint; the session's own credentials carry
// the authenticated calls that follow.
func (e *Engine) LoginWithPIN(ctx context.Context, pin string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	started := time.Now()
	e.commit(reduceFlowStarted)

	ok, err := e.pin.Verify(ctx, pin)
	if err != nil {
		var typed *autherr.Error
		if errors.Is(err, store.ErrNotFound) {
			typed = autherr.New(autherr.IDPINNotConfigured)
		} else {
			typed = autherr.Ensure(err, autherr.IDStoreReadFailed)
		}
		e.metricInc(MetricPINUnlockFailure)
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
		e.emitAudit(ctx, auditEventPINUnlockFailure, false, "", typed, nil)
		return typed
	}
	if !ok {
		typed := autherr.New(autherr.IDPINMismatch)
		e.metricInc(MetricPINUnlockFailure)
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
		e.emitAudit(ctx, auditEventPINUnlockFailure, false, "", typed, nil)
		return typed
	}

	if typed := e.unlockSession(ctx, MethodPIN); typed != nil {
		e.metricInc(MetricPINUnlockFailure)
		e.emitAudit(ctx, auditEventPINUnlockFailure, false, "", typed, nil)
		return typed
	}

	e.metricInc(MetricPINUnlockSuccess)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricUnlockLatency, time.Since(started))
	}
	e.emitAudit(ctx, auditEventPINUnlockSuccess, true, userIDOf(e.cachedSession()), nil, nil)

	return nil
}

// LoginWithBiometric describes the loginwithbiometric operation and its observable behavior.
//
// LoginWithBiometric may return an error when input validation, dependency calls, or security checks fail.
// LoginWithBiometric does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A cancelled prompt is a distinct outcome from a failed one: the UI offers
// the PIN pad on cancel and an error banner on failure.
func (e *Engine) LoginWithBiometric(ctx context.Context, prompt string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	started := time.Now()
	e.commit(reduceFlowStarted)

	fail := func(typed *autherr.Error) error {
		e.metricInc(MetricBiometricUnlockFailure)
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
		e.emitAudit(ctx, auditEventBiometricUnlockFailure, false, "", typed, nil)
		return typed
	}

	if e.biometric == nil {
		return fail(autherr.New(autherr.IDBiometricUnavailable))
	}

	avail, err := e.biometric.Availability(ctx)
	if err != nil || !avail.Available {
		typed := autherr.New(autherr.IDBiometricUnavailable)
		if err != nil {
			typed = typed.WithCause(err)
		}
		return fail(typed)
	}

	ok, err := e.biometric.Authenticate(ctx, prompt)
	if err != nil {
		return fail(autherr.New(autherr.IDBiometricFailed).WithCause(err))
	}
	if !ok {
		return fail(autherr.New(autherr.IDBiometricCancelled))
	}

	if typed := e.unlockSession(ctx, MethodBiometric); typed != nil {
		e.metricInc(MetricBiometricUnlockFailure)
		e.emitAudit(ctx, auditEventBiometricUnlockFailure, false, "", typed, nil)
		return typed
	}

	e.metricInc(MetricBiometricUnlockSuccess)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricUnlockLatency, time.Since(started))
	}
	e.emitAudit(ctx, auditEventBiometricUnlockSuccess, true, userIDOf(e.cachedSession()),
		nil, func() map[string]string {
			return map[string]string{"kind": avail.Kind}
		})

	return nil
}

// unlockSession is the shared tail of the PIN and biometric flows: the local
// credential has already been accepted, so load the snapshot, backfill the
// profile when the snapshot lacks one, clear the lock, and reconcile the
// cookie session. The password-authenticated flag is preserved as-is; only
// password logins may set it.
func (e *Engine) unlockSession(ctx context.Context, method AuthMethod) *autherr.Error {
	sess, terr := e.bestSession(ctx)
	if terr != nil {
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, terr) })
		return terr
	}

	if sess.User == nil {
		user, err := e.identity.RefreshProfile(ctx, sess.Token)
		if err != nil {
			typed := autherr.Ensure(err, autherr.IDProfileFetchFailed)
			if typed.ID == autherr.IDSessionInvalid {
				e.wipeSession(ctx, typed)
				return typed
			}
			e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
			return typed
		}
		sess.User = user
	}

	if blockErr := accountStatusError(sess.User); blockErr != nil {
		e.metricInc(MetricVendorBlocked)
		e.wipeSession(ctx, blockErr)
		return blockErr
	}

	sess.Locked = false
	if perr := e.persistSession(ctx, sess); perr != nil {
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, perr) })
		return perr
	}

	e.commit(func(s AuthState) AuthState {
		return reduceLoginSucceeded(s, sess, nil, method, false)
	})

	e.reconcileCookieSession(ctx, sess)

	return nil
}
