package authflow

import (
	"context"

	"github.com/membercore/authflow/autherr"
)

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// ChangePassword requires a password-authenticated session: a quick-unlock
// grant alone cannot rotate the account password.
func (e *Engine) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if typed := e.requirePasswordGrant(); typed != nil {
		e.emitAudit(ctx, auditEventPasswordChange, false, "", typed, nil)
		return typed
	}

	sess, terr := e.bestSession(ctx)
	if terr != nil {
		e.emitAudit(ctx, auditEventPasswordChange, false, "", terr, nil)
		return terr
	}

	if err := e.identity.ChangePassword(ctx, sess.Token, oldPassword, newPassword); err != nil {
		typed := autherr.Ensure(err, autherr.IDPasswordChangeFailed)
		if typed.ID == autherr.IDSessionInvalid {
			e.wipeSession(ctx, typed)
		}
		e.emitAudit(ctx, auditEventPasswordChange, false, userIDOf(sess), typed, nil)
		return typed
	}

	e.emitAudit(ctx, auditEventPasswordChange, true, userIDOf(sess), nil, nil)

	return nil
}

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Available while unauthenticated; the backend decides whether the
// identifier exists and never discloses that here.
func (e *Engine) RequestPasswordReset(ctx context.Context, identifier string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.identity.RequestPasswordReset(ctx, identifier); err != nil {
		typed := autherr.Ensure(err, autherr.IDPasswordResetFailed)
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", typed, nil)
		return typed
	}

	e.emitAudit(ctx, auditEventPasswordResetRequest, true, "", nil, nil)

	return nil
}

// ResetPasswordWithCode describes the resetpasswordwithcode operation and its observable behavior.
//
// ResetPasswordWithCode may return an error when input validation, dependency calls, or security checks fail.
// ResetPasswordWithCode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ResetPasswordWithCode(ctx context.Context, identifier, code, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.identity.ResetPasswordWithCode(ctx, identifier, code, newPassword); err != nil {
		typed := autherr.Ensure(err, autherr.IDPasswordResetFailed)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", typed, nil)
		return typed
	}

	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, "", nil, nil)

	return nil
}

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A successful member registration logs the new account straight in, exactly
// like a password login. A vendor registration typically comes back pending,
// in which case no session is persisted and the caller gets the pending
// error to render.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) error {
	if e == nil {
		return ErrEngineNotReady
	}

	e.commit(reduceFlowStarted)

	sess, err := e.identity.Register(ctx, req)
	if err != nil {
		typed := autherr.Ensure(err, autherr.IDRegistrationFailed)
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
		e.emitAudit(ctx, auditEventRegistration, false, "", typed, nil)
		return typed
	}

	if blockErr := accountStatusError(sess.User); blockErr != nil {
		e.metricInc(MetricVendorBlocked)
		e.commit(func(s AuthState) AuthState {
			next := reduceUnauthenticated(s)
			next.Err = blockErr
			return next
		})
		e.emitAudit(ctx, auditEventRegistration, false, userIDOfSession(sess), blockErr, nil)
		return blockErr
	}

	persisted := persistedFromSession(sess)
	perr := e.persistSession(ctx, persisted)

	qr := e.fetchMemberQR(ctx, persisted.Token)

	e.commit(func(s AuthState) AuthState {
		next := reduceLoginSucceeded(s, persisted, qr, MethodPassword, true)
		if perr != nil {
			next.Err = perr
		}
		return next
	})

	e.metricInc(MetricPasswordLoginSuccess)
	e.emitAudit(ctx, auditEventRegistration, true, userIDOf(persisted), nil, func() map[string]string {
		return map[string]string{"vendor": boolString(req.Vendor)}
	})

	e.reconcileCookieSession(ctx, persisted)

	if perr != nil {
		return perr
	}
	return nil
}

// RefreshMemberQR describes the refreshmemberqr operation and its observable behavior.
//
// RefreshMemberQR may return an error when input validation, dependency calls, or security checks fail.
// RefreshMemberQR does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// RefreshMemberQR re-fetches the member QR on demand (pull-to-refresh on the
// card screen). Unlike the post-login fetch, a failure here is surfaced.
func (e *Engine) RefreshMemberQR(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if !e.State().IsAuthenticated() {
		return autherr.New(autherr.IDLoginRequired)
	}

	bearer, err := e.SessionToken(ctx)
	if err != nil {
		return err
	}

	qr, err := e.identity.MemberQRCode(ctx, bearer)
	if err != nil {
		typed := autherr.Ensure(err, autherr.IDProfileFetchFailed)
		e.emitAudit(ctx, auditEventQRCodeFetch, false, "", typed, nil)
		return typed
	}

	e.commit(func(s AuthState) AuthState {
		s.MemberQR = qr
		return s
	})
	e.emitAudit(ctx, auditEventQRCodeFetch, true, "", nil, nil)

	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
