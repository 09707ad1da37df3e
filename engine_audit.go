package authflow

import (
	"context"
	"time"

	"github.com/membercore/authflow/autherr"
)

const (
	auditEventBootstrap              = "bootstrap"
	auditEventPasswordLoginSuccess   = "password_login_success"
	auditEventPasswordLoginFailure   = "password_login_failure"
	auditEventPINUnlockSuccess       = "pin_unlock_success"
	auditEventPINUnlockFailure       = "pin_unlock_failure"
	auditEventBiometricUnlockSuccess = "biometric_unlock_success"
	auditEventBiometricUnlockFailure = "biometric_unlock_failure"
	auditEventLogout                 = "logout"
	auditEventSessionRefresh         = "session_refresh"
	auditEventSessionWiped           = "session_wiped"
	auditEventTokenReauth            = "token_reauth"
	auditEventCookieReconcile        = "cookie_reconcile"
	auditEventHydration              = "hydration"
	auditEventPINRegistered          = "pin_registered"
	auditEventPINRemoved             = "pin_removed"
	auditEventPasswordChange         = "password_change"
	auditEventPasswordResetRequest   = "password_reset_request"
	auditEventPasswordResetConfirm   = "password_reset_confirm"
	auditEventRegistration           = "registration"
	auditEventVendorBlocked          = "vendor_blocked"
	auditEventQRCodeFetch            = "qr_code_fetch"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Phase:     e.State().Phase.String(),
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		typed := autherr.Ensure(err, autherr.IDUnknown)
		event.ErrorID = string(typed.ID)
		event.ErrorCode = typed.Code
		event.Error = typed.Display()
	}

	e.audit.Emit(ctx, event)
}
