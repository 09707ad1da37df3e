package autherr

// ID is the stable identifier of a catalog entry. Identifiers and codes are
// append-only: a code is never reused for a different meaning.
type ID string

const (
	// IDUnknown is an exported constant or variable used by the session orchestrator.
	IDUnknown ID = "unknown"
	// IDNoSavedSession is an exported constant or variable used by the session orchestrator.
	IDNoSavedSession ID = "no_saved_session"
	// IDLoginRequired is an exported constant or variable used by the session orchestrator.
	IDLoginRequired ID = "login_required"
	// IDLoginFailed is an exported constant or variable used by the session orchestrator.
	IDLoginFailed ID = "login_failed"
	// IDSessionInvalid is an exported constant or variable used by the session orchestrator.
	IDSessionInvalid ID = "session_invalid"
	// IDTokenExpired is an exported constant or variable used by the session orchestrator.
	IDTokenExpired ID = "token_expired"
	// IDPINMismatch is an exported constant or variable used by the session orchestrator.
	IDPINMismatch ID = "pin_mismatch"
	// IDPINNotConfigured is an exported constant or variable used by the session orchestrator.
	IDPINNotConfigured ID = "pin_not_configured"
	// IDPINPolicy is an exported constant or variable used by the session orchestrator.
	IDPINPolicy ID = "pin_policy"
	// IDBiometricUnavailable is an exported constant or variable used by the session orchestrator.
	IDBiometricUnavailable ID = "biometric_unavailable"
	// IDBiometricCancelled is an exported constant or variable used by the session orchestrator.
	IDBiometricCancelled ID = "biometric_cancelled"
	// IDBiometricFailed is an exported constant or variable used by the session orchestrator.
	IDBiometricFailed ID = "biometric_failed"
	// IDVendorPending is an exported constant or variable used by the session orchestrator.
	IDVendorPending ID = "vendor_pending"
	// IDVendorRejected is an exported constant or variable used by the session orchestrator.
	IDVendorRejected ID = "vendor_rejected"
	// IDVendorSuspended is an exported constant or variable used by the session orchestrator.
	IDVendorSuspended ID = "vendor_suspended"
	// IDRegistrationFailed is an exported constant or variable used by the session orchestrator.
	IDRegistrationFailed ID = "registration_failed"
	// IDPasswordChangeFailed is an exported constant or variable used by the session orchestrator.
	IDPasswordChangeFailed ID = "password_change_failed"
	// IDPasswordResetFailed is an exported constant or variable used by the session orchestrator.
	IDPasswordResetFailed ID = "password_reset_failed"
	// IDStoreWriteFailed is an exported constant or variable used by the session orchestrator.
	IDStoreWriteFailed ID = "store_write_failed"
	// IDStoreReadFailed is an exported constant or variable used by the session orchestrator.
	IDStoreReadFailed ID = "store_read_failed"
	// IDRandomSource is an exported constant or variable used by the session orchestrator.
	IDRandomSource ID = "random_source"
	// IDHydrationFailed is an exported constant or variable used by the session orchestrator.
	IDHydrationFailed ID = "hydration_failed"
	// IDHydrationCancelled is an exported constant or variable used by the session orchestrator.
	IDHydrationCancelled ID = "hydration_cancelled"
	// IDHydrationTimeout is an exported constant or variable used by the session orchestrator.
	IDHydrationTimeout ID = "hydration_timeout"
	// IDCookieSessionFailed is an exported constant or variable used by the session orchestrator.
	IDCookieSessionFailed ID = "cookie_session_failed"
	// IDProfileFetchFailed is an exported constant or variable used by the session orchestrator.
	IDProfileFetchFailed ID = "profile_fetch_failed"
)

type entry struct {
	code    string
	message string
}

// The catalog is append-only. Codes are what end users quote in support
// tickets; identifiers are what the UI branches on.
var catalog = map[ID]entry{
	IDUnknown:              {"AF-000", "something went wrong"},
	IDNoSavedSession:       {"AF-001", "no saved session to unlock"},
	IDLoginRequired:        {"AF-002", "password login required"},
	IDLoginFailed:          {"AF-003", "login failed"},
	IDSessionInvalid:       {"AF-004", "session is no longer valid"},
	IDTokenExpired:         {"AF-005", "session token expired"},
	IDPINMismatch:          {"AF-010", "incorrect pin"},
	IDPINNotConfigured:     {"AF-011", "pin is not configured"},
	IDPINPolicy:            {"AF-012", "pin does not meet requirements"},
	IDBiometricUnavailable: {"AF-020", "biometric authentication unavailable"},
	IDBiometricCancelled:   {"AF-021", "biometric authentication cancelled"},
	IDBiometricFailed:      {"AF-022", "biometric authentication failed"},
	IDVendorPending:        {"AF-030", "vendor account is pending approval"},
	IDVendorRejected:       {"AF-031", "vendor account was rejected"},
	IDVendorSuspended:      {"AF-032", "vendor account is suspended"},
	IDRegistrationFailed:   {"AF-040", "registration failed"},
	IDPasswordChangeFailed: {"AF-041", "password change failed"},
	IDPasswordResetFailed:  {"AF-042", "password reset failed"},
	IDStoreWriteFailed:     {"AF-050", "secure store write failed"},
	IDStoreReadFailed:      {"AF-051", "secure store read failed"},
	IDRandomSource:         {"AF-052", "secure random source unavailable"},
	IDHydrationFailed:      {"AF-060", "cookie hydration failed"},
	IDHydrationCancelled:   {"AF-061", "cookie hydration cancelled"},
	IDHydrationTimeout:     {"AF-062", "cookie hydration timed out"},
	IDCookieSessionFailed:  {"AF-063", "cookie session could not be established"},
	IDProfileFetchFailed:   {"AF-070", "profile refresh failed"},
}

// Code returns the stable short code for id, or the unknown code when the
// identifier is not in the catalog.
func Code(id ID) string {
	if e, ok := catalog[id]; ok {
		return e.code
	}
	return catalog[IDUnknown].code
}

// DefaultMessage returns the catalog display message for id.
func DefaultMessage(id ID) string {
	if e, ok := catalog[id]; ok {
		return e.message
	}
	return catalog[IDUnknown].message
}

// matchMessage recovers an identifier from a raw message by exact match
// against the catalog's default messages. Best-effort: the first match in
// iteration order wins, so callers must not rely on it when two entries
// share a default message. Compatibility shim only; prefer threading typed
// errors through every boundary.
func matchMessage(msg string) (ID, bool) {
	for id, e := range catalog {
		if e.message == msg {
			return id, true
		}
	}
	return "", false
}
