package authflow

import "github.com/membercore/authflow/autherr"

// Phase is the tagged authentication state. Modeling the phase explicitly
// (instead of isAuthenticated/isLocked booleans) makes the invariant
// "authenticated implies a user is present and the session is not locked"
// structural rather than maintained by convention.
type Phase uint8

const (
	// PhaseInitializing is an exported constant or variable used by the session orchestrator.
	PhaseInitializing Phase = iota
	// PhaseUnauthenticated is an exported constant or variable used by the session orchestrator.
	PhaseUnauthenticated
	// PhaseLocked is an exported constant or variable used by the session orchestrator.
	PhaseLocked
	// PhaseAuthenticated is an exported constant or variable used by the session orchestrator.
	PhaseAuthenticated
)

// String describes the string operation and its observable behavior.
func (p Phase) String() string {
	switch p {
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseLocked:
		return "locked"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "initializing"
	}
}

// AuthState is the in-memory state owned exclusively by the engine. Values
// returned by [Engine.State] are snapshots; mutating them has no effect.
//
// A locked state retains the last known User and Membership for greeting
// and QR display without granting access.
type AuthState struct {
	Phase      Phase
	Loading    bool
	User       *User
	Membership *MembershipInfo
	MemberQR   *QRCode
	Method     AuthMethod
	Err        *autherr.Error

	// PasswordAuthenticated is true only while the current unlock chain
	// traces back to a password grant; PIN and biometric unlocks preserve
	// whatever value the flag already had, and logout clears it. Password
	// change requires it; PIN management accepts it or any authenticated
	// session.
	PasswordAuthenticated bool
}

// IsAuthenticated reports whether access is currently granted.
func (s AuthState) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated && s.User != nil
}

// IsLocked reports whether a session exists but access is withheld pending
// PIN, biometric, or password re-entry.
func (s AuthState) IsLocked() bool {
	return s.Phase == PhaseLocked
}

// The reducer: synchronous, side-effect-free transitions. Engine flows do
// all I/O first and commit exactly one of these under the engine mutex.

func reduceFlowStarted(s AuthState) AuthState {
	s.Loading = true
	s.Err = nil
	return s
}

func reduceFlowFailed(s AuthState, err *autherr.Error) AuthState {
	s.Loading = false
	s.Err = err
	return s
}

func reduceUnauthenticated(s AuthState) AuthState {
	return AuthState{Phase: PhaseUnauthenticated}
}

func reduceLoginSucceeded(s AuthState, sess *PersistedSession, qr *QRCode, method AuthMethod, passwordGrant bool) AuthState {
	next := AuthState{
		Phase:      PhaseAuthenticated,
		User:       sess.User,
		Membership: sess.Membership,
		MemberQR:   qr,
		Method:     method,
	}
	if next.MemberQR == nil {
		next.MemberQR = s.MemberQR
	}
	if passwordGrant {
		next.PasswordAuthenticated = true
	} else {
		next.PasswordAuthenticated = s.PasswordAuthenticated
	}
	return next
}

func reduceLocked(s AuthState, sess *PersistedSession) AuthState {
	next := AuthState{
		Phase:      PhaseLocked,
		User:       s.User,
		Membership: s.Membership,
		MemberQR:   s.MemberQR,
	}
	if sess != nil {
		if sess.User != nil {
			next.User = sess.User
		}
		if sess.Membership != nil {
			next.Membership = sess.Membership
		}
	}
	return next
}

func reduceBootstrapped(s AuthState, sess *PersistedSession) AuthState {
	if sess == nil {
		return AuthState{Phase: PhaseUnauthenticated}
	}
	// A snapshot without a full profile cannot satisfy the authenticated
	// invariant; it needs an unlock, which backfills the profile.
	if sess.Locked || sess.User == nil {
		return AuthState{
			Phase:      PhaseLocked,
			User:       sess.User,
			Membership: sess.Membership,
		}
	}
	return AuthState{
		Phase:      PhaseAuthenticated,
		User:       sess.User,
		Membership: sess.Membership,
		Method:     MethodNone,
	}
}
