package authflow

import (
	"context"
	"time"

	"github.com/membercore/authflow/autherr"
	"github.com/membercore/authflow/token"
)

// Bootstrap describes the bootstrap operation and its observable behavior.
//
// Bootstrap may return an error when input validation, dependency calls, or security checks fail.
// Bootstrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Bootstrap restores the persisted session on process start. A locked
// snapshot (or one without a profile) lands in the locked phase; an unlocked
// one restores authenticated access without a network round-trip. Backend
// validation is deferred to the first authenticated call.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	sess, err := e.store.LoadSession(ctx)
	if err != nil {
		typed := autherr.Ensure(err, autherr.IDStoreReadFailed)
		e.commit(func(s AuthState) AuthState {
			return reduceFlowFailed(reduceUnauthenticated(s), typed)
		})
		e.emitAudit(ctx, auditEventBootstrap, false, "", typed, nil)
		return typed
	}

	if sess == nil {
		e.commit(reduceUnauthenticated)
		e.emitAudit(ctx, auditEventBootstrap, true, "", nil, func() map[string]string {
			return map[string]string{"outcome": "no_session"}
		})
		return nil
	}

	e.setSession(sess)
	e.commit(func(s AuthState) AuthState {
		return reduceBootstrapped(s, sess)
	})

	state := e.State()
	e.emitAudit(ctx, auditEventBootstrap, true, userIDOf(sess), nil, func() map[string]string {
		return map[string]string{"outcome": state.Phase.String()}
	})

	if state.IsAuthenticated() {
		e.reconcileCookieSession(ctx, sess)
	}

	return nil
}

// RefreshSession describes the refreshsession operation and its observable behavior.
//
// RefreshSession may return an error when input validation, dependency calls, or security checks fail.
// RefreshSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// RefreshSession re-fetches the member profile from the backend and folds it
// into the persisted snapshot. A session-invalid verdict from the backend is
// the one case that wipes the stored session.
func (e *Engine) RefreshSession(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	sess, terr := e.bestSession(ctx)
	if terr != nil {
		e.metricInc(MetricSessionRefreshFailure)
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, terr) })
		e.emitAudit(ctx, auditEventSessionRefresh, false, "", terr, nil)
		return terr
	}

	user, err := e.identity.RefreshProfile(ctx, sess.Token)
	if err != nil {
		typed := autherr.Ensure(err, autherr.IDProfileFetchFailed)
		e.metricInc(MetricSessionRefreshFailure)
		if typed.ID == autherr.IDSessionInvalid {
			e.wipeSession(ctx, typed)
			e.emitAudit(ctx, auditEventSessionRefresh, false, userIDOf(sess), typed, nil)
			return typed
		}
		e.commit(func(s AuthState) AuthState { return reduceFlowFailed(s, typed) })
		e.emitAudit(ctx, auditEventSessionRefresh, false, userIDOf(sess), typed, nil)
		return typed
	}

	if blockErr := accountStatusError(user); blockErr != nil {
		e.metricInc(MetricVendorBlocked)
		e.wipeSession(ctx, blockErr)
		e.emitAudit(ctx, auditEventVendorBlocked, false, user.ID, blockErr, nil)
		return blockErr
	}

	sess.User = user
	perr := e.persistSession(ctx, sess)

	e.commit(func(s AuthState) AuthState {
		s.User = user
		s.Err = nil
		if perr != nil {
			s.Err = perr
		}
		return s
	})

	e.metricInc(MetricSessionRefreshSuccess)
	e.emitAudit(ctx, auditEventSessionRefresh, true, user.ID, nil, nil)

	if perr != nil {
		return perr
	}
	return nil
}

// SessionToken describes the sessiontoken operation and its observable behavior.
//
// SessionToken may return an error when input validation, dependency calls, or security checks fail.
// SessionToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// SessionToken returns a bearer token fresh enough for an authenticated
// call, performing at most one reauthentication against the refresh token
// when the stored one is stale.
func (e *Engine) SessionToken(ctx context.Context) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	sess, terr := e.bestSession(ctx)
	if terr != nil {
		return "", terr
	}

	if e.tokenFresh(sess) {
		return sess.Token, nil
	}

	next, err := e.identity.Reauthenticate(ctx, sess.RefreshToken)
	if err != nil {
		// Read-only helper: even a session-invalid verdict only surfaces to
		// the caller here; RefreshSession owns the hard teardown.
		typed := autherr.Ensure(err, autherr.IDTokenExpired)
		e.emitAudit(ctx, auditEventTokenReauth, false, userIDOf(sess), typed, nil)
		return "", typed
	}

	merged := mergeSession(sess, next)
	if perr := e.persistSession(ctx, merged); perr != nil {
		// The fresh token is still usable this call; only durability suffered.
		e.emitAudit(ctx, auditEventTokenReauth, true, userIDOf(merged), perr, nil)
		e.metricInc(MetricTokenReauth)
		return merged.Token, nil
	}

	e.metricInc(MetricTokenReauth)
	e.emitAudit(ctx, auditEventTokenReauth, true, userIDOf(merged), nil, nil)

	return merged.Token, nil
}

// tokenFresh trusts the recorded expiry when the backend supplied one and
// falls back to inspecting the token itself otherwise. An opaque token with
// no readable expiry is treated as fresh; the backend is the authority.
func (e *Engine) tokenFresh(sess *PersistedSession) bool {
	if sess.Token == "" {
		return false
	}
	now := time.Now()
	if !sess.TokenExpiresAt.IsZero() {
		return now.Add(e.config.Session.TokenExpiryLeeway).Before(sess.TokenExpiresAt)
	}
	return token.Fresh(sess.Token, now, e.config.Session.TokenExpiryLeeway)
}

// mergeSession folds a reauthentication payload into the persisted snapshot,
// keeping locally owned fields (lock flag, last known profile) when the
// payload omits them.
func mergeSession(base *PersistedSession, next *Session) *PersistedSession {
	out := base.Clone()
	if next == nil {
		return out
	}
	if next.Token != "" {
		out.Token = next.Token
	}
	if next.RefreshToken != "" {
		out.RefreshToken = next.RefreshToken
	}
	if !next.TokenExpiresAt.IsZero() {
		out.TokenExpiresAt = next.TokenExpiresAt
	}
	if next.TokenLoginURL != "" {
		out.TokenLoginURL = next.TokenLoginURL
	}
	if next.RESTNonce != "" {
		out.RESTNonce = next.RESTNonce
	}
	if next.User != nil {
		out.User = next.User
	}
	if next.Membership != nil {
		out.Membership = next.Membership
	}
	return out
}
