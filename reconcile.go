package authflow

import (
	"context"
	"strconv"

	"github.com/membercore/authflow/autherr"
)

// reconcileCookieSession runs the cookie ladder after an unlock: one direct
// bridge attempt, at most one hydration pass, one direct retry. The outcome
// never fails the surrounding flow; bearer-token access works without the
// cookie session, so failures here are recorded and dropped.
func (e *Engine) reconcileCookieSession(ctx context.Context, sess *PersistedSession) {
	if e.cookies == nil || sess == nil {
		return
	}

	res, err := e.cookies.EnsureCookieSession(ctx, sess)
	if err == nil && res.OK {
		e.metricInc(MetricCookieDirectSuccess)
		e.emitAudit(ctx, auditEventCookieReconcile, true, userIDOf(sess), nil, nil)
		return
	}

	e.metricInc(MetricCookieDirectFailure)

	if sess.TokenLoginURL == "" {
		e.emitAudit(ctx, auditEventCookieReconcile, false, userIDOf(sess),
			cookieFailure(res, err), nil)
		return
	}

	if herr := e.hydration.enqueue(ctx, sess.TokenLoginURL); herr != nil {
		switch herr.ID {
		case autherr.IDHydrationCancelled:
			e.metricInc(MetricHydrationCancelled)
		default:
			e.metricInc(MetricHydrationFailure)
		}
		e.emitAudit(ctx, auditEventHydration, false, userIDOf(sess), herr, nil)
		if herr.ID == autherr.IDHydrationCancelled {
			// User dismissed the surface or the engine is closing; retrying
			// the bridge now would just fail the same way.
			return
		}
	} else {
		e.metricInc(MetricHydrationSuccess)
		e.emitAudit(ctx, auditEventHydration, true, userIDOf(sess), nil, nil)
	}

	res, err = e.cookies.EnsureCookieSession(ctx, sess)
	if err == nil && res.OK {
		e.metricInc(MetricCookieDirectSuccess)
		e.emitAudit(ctx, auditEventCookieReconcile, true, userIDOf(sess), nil, func() map[string]string {
			return map[string]string{"after_hydration": "true"}
		})
		return
	}

	e.metricInc(MetricCookieDirectFailure)
	e.emitAudit(ctx, auditEventCookieReconcile, false, userIDOf(sess),
		cookieFailure(res, err), func() map[string]string {
			return map[string]string{"after_hydration": "true"}
		})
}

func cookieFailure(res CookieResult, err error) *autherr.Error {
	typed := autherr.New(autherr.IDCookieSessionFailed)
	if err != nil {
		typed = typed.WithCause(err)
	}
	if res.Status != 0 {
		typed = typed.WithMeta("status", strconv.Itoa(res.Status))
	}
	return typed
}

func userIDOf(sess *PersistedSession) string {
	if sess == nil || sess.User == nil {
		return ""
	}
	return sess.User.ID
}
