package authflow

import (
	"context"

	"github.com/membercore/authflow/autherr"
)

// LoginWithPassword describes the loginwithpassword operation and its observable behavior.
//
// LoginWithPassword may return an error when input validation, dependency calls, or security checks fail.
// LoginWithPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A successful password login replaces the persisted session outright and is
// the only flow that sets the password-authenticated flag. It also works as
// the password unlock of a locked session.
func (e *Engine) LoginWithPassword(ctx context.Context, creds Credentials) error {
	if e == nil {
		return ErrEngineNotReady
	}

	e.commit(reduceFlowStarted)

	sess, err := e.identity.Login(ctx, creds)
	if err != nil {
		typed := autherr.Ensure(err, autherr.IDLoginFailed)
		e.metricInc(MetricPasswordLoginFailure)
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
		e.emitAudit(ctx, auditEventPasswordLoginFailure, false, "", typed, nil)
		return typed
	}

	if blockErr := accountStatusError(sess.User); blockErr != nil {
		e.metricInc(MetricVendorBlocked)
		e.metricInc(MetricPasswordLoginFailure)
		e.wipeSession(ctx, blockErr)
		e.emitAudit(ctx, auditEventVendorBlocked, false, userIDOfSession(sess), blockErr, nil)
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
	e.emitAudit(ctx, auditEventPasswordLoginSuccess, true, userIDOf(persisted), nil, func() map[string]string {
		return map[string]string{"method": MethodPassword.String()}
	})

	e.reconcileCookieSession(ctx, persisted)

	if perr != nil {
		return perr
	}
	return nil
}

// accountStatusError maps a blocked vendor lifecycle status to its typed
// error. Active accounts (vendor or not) return nil.
func accountStatusError(u *User) *autherr.Error {
	if u == nil {
		return nil
	}
	switch u.Status {
	case AccountVendorPending:
		return autherr.New(autherr.IDVendorPending)
	case AccountVendorRejected:
		return autherr.New(autherr.IDVendorRejected)
	case AccountVendorSuspended:
		return autherr.New(autherr.IDVendorSuspended)
	default:
		return nil
	}
}

func persistedFromSession(sess *Session) *PersistedSession {
	return &PersistedSession{
		Token:          sess.Token,
		RefreshToken:   sess.RefreshToken,
		TokenExpiresAt: sess.TokenExpiresAt,
		TokenLoginURL:  sess.TokenLoginURL,
		RESTNonce:      sess.RESTNonce,
		User:           sess.User,
		Membership:     sess.Membership,
	}
}

func userIDOfSession(sess *Session) string {
	if sess == nil || sess.User == nil {
		return ""
	}
	return sess.User.ID
}

// fetchMemberQR is best-effort: a QR fetch failure never degrades a login
// that already succeeded.
func (e *Engine) fetchMemberQR(ctx context.Context, bearer string) *QRCode {
	if !e.config.Session.FetchQRCodeOnLogin || bearer == "" {
		return nil
	}
	qr, err := e.identity.MemberQRCode(ctx, bearer)
	if err != nil {
		e.emitAudit(ctx, auditEventQRCodeFetch, false, "",
			autherr.Ensure(err, autherr.IDProfileFetchFailed), nil)
		return nil
	}
	e.emitAudit(ctx, auditEventQRCodeFetch, true, "", nil, nil)
	return qr
}
