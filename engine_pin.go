package authflow

import (
	"context"
	"errors"

	"github.com/membercore/authflow/autherr"
	"github.com/membercore/authflow/pincode"
)

// requirePasswordGrant gates password change: only an unlock chain that
// traces back to a fresh password proof qualifies.
func (e *Engine) requirePasswordGrant() *autherr.Error {
	state := e.State()
	if !state.IsAuthenticated() || !state.PasswordAuthenticated {
		return autherr.New(autherr.IDLoginRequired)
	}
	return nil
}

// requireUnlockedGrant gates PIN management: a password grant or any
// currently authenticated session qualifies, so a user restored by
// bootstrap can still set up quick unlock.
func (e *Engine) requireUnlockedGrant() *autherr.Error {
	state := e.State()
	if !state.PasswordAuthenticated && !state.IsAuthenticated() {
		return autherr.New(autherr.IDLoginRequired)
	}
	return nil
}

// RegisterPIN describes the registerpin operation and its observable behavior.
//
// RegisterPIN may return an error when input validation, dependency calls, or security checks fail.
// RegisterPIN does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RegisterPIN(ctx context.Context, pin string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if typed := e.requireUnlockedGrant(); typed != nil {
		e.emitAudit(ctx, auditEventPINRegistered, false, "", typed, nil)
		return typed
	}

	if err := e.pin.Register(ctx, pin); err != nil {
		var typed *autherr.Error
		if errors.Is(err, pincode.ErrPINTooShort) {
			typed = autherr.New(autherr.IDPINPolicy).WithCause(err)
		} else {
			typed = autherr.Ensure(err, autherr.IDStoreWriteFailed)
		}
		e.emitAudit(ctx, auditEventPINRegistered, false, userIDOf(e.cachedSession()), typed, nil)
		return typed
	}

	e.metricInc(MetricPINRegistered)
	e.emitAudit(ctx, auditEventPINRegistered, true, userIDOf(e.cachedSession()), nil, nil)

	return nil
}

// RemovePIN describes the removepin operation and its observable behavior.
//
// RemovePIN may return an error when input validation, dependency calls, or security checks fail.
// RemovePIN does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Removing an unregistered PIN succeeds; the end state is the same.
func (e *Engine) RemovePIN(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if typed := e.requireUnlockedGrant(); typed != nil {
		e.emitAudit(ctx, auditEventPINRemoved, false, "", typed, nil)
		return typed
	}

	if err := e.pin.Remove(ctx); err != nil {
		typed := autherr.Ensure(err, autherr.IDStoreWriteFailed)
		e.emitAudit(ctx, auditEventPINRemoved, false, userIDOf(e.cachedSession()), typed, nil)
		return typed
	}

	e.metricInc(MetricPINRemoved)
	e.emitAudit(ctx, auditEventPINRemoved, true, userIDOf(e.cachedSession()), nil, nil)

	return nil
}

// PINConfigured describes the pinconfigured operation and its observable behavior.
//
// PINConfigured may return an error when input validation, dependency calls, or security checks fail.
// PINConfigured does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// PINConfigured is readable in any phase; the lock screen uses it to decide
// whether to show the PIN pad.
func (e *Engine) PINConfigured(ctx context.Context) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	return e.pin.Configured(ctx)
}
