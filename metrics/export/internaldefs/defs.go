package internaldefs

import (
	authflow "github.com/membercore/authflow"
)

// CounterDef defines a public type used by authflow APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authflow.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authflow APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authflow.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session orchestrator.
var CounterDefs = []CounterDef{
	{ID: authflow.MetricPasswordLoginSuccess, Name: "authflow_password_login_success_total", Help: "Successful password logins."},
	{ID: authflow.MetricPasswordLoginFailure, Name: "authflow_password_login_failure_total", Help: "Failed password logins."},
	{ID: authflow.MetricPINUnlockSuccess, Name: "authflow_pin_unlock_success_total", Help: "Successful PIN unlocks."},
	{ID: authflow.MetricPINUnlockFailure, Name: "authflow_pin_unlock_failure_total", Help: "Failed PIN unlocks."},
	{ID: authflow.MetricBiometricUnlockSuccess, Name: "authflow_biometric_unlock_success_total", Help: "Successful biometric unlocks."},
	{ID: authflow.MetricBiometricUnlockFailure, Name: "authflow_biometric_unlock_failure_total", Help: "Failed or cancelled biometric unlocks."},
	{ID: authflow.MetricLogout, Name: "authflow_logout_total", Help: "Soft logout operations."},
	{ID: authflow.MetricSessionRefreshSuccess, Name: "authflow_session_refresh_success_total", Help: "Successful profile refreshes."},
	{ID: authflow.MetricSessionRefreshFailure, Name: "authflow_session_refresh_failure_total", Help: "Failed profile refreshes."},
	{ID: authflow.MetricSessionWiped, Name: "authflow_session_wiped_total", Help: "Hard session wipes."},
	{ID: authflow.MetricTokenReauth, Name: "authflow_token_reauth_total", Help: "Token reauthentications against the refresh token."},
	{ID: authflow.MetricCookieDirectSuccess, Name: "authflow_cookie_direct_success_total", Help: "Successful direct cookie-bridge attempts."},
	{ID: authflow.MetricCookieDirectFailure, Name: "authflow_cookie_direct_failure_total", Help: "Failed direct cookie-bridge attempts."},
	{ID: authflow.MetricHydrationSuccess, Name: "authflow_hydration_success_total", Help: "Successful cookie hydration passes."},
	{ID: authflow.MetricHydrationFailure, Name: "authflow_hydration_failure_total", Help: "Failed cookie hydration passes."},
	{ID: authflow.MetricHydrationCancelled, Name: "authflow_hydration_cancelled_total", Help: "Dismissed or cancelled cookie hydration passes."},
	{ID: authflow.MetricPINRegistered, Name: "authflow_pin_registered_total", Help: "PIN registration operations."},
	{ID: authflow.MetricPINRemoved, Name: "authflow_pin_removed_total", Help: "PIN removal operations."},
	{ID: authflow.MetricVendorBlocked, Name: "authflow_vendor_blocked_total", Help: "Logins blocked by vendor account status."},
}

// HistogramDefs is an exported constant or variable used by the session orchestrator.
var HistogramDefs = []HistogramDef{
	{ID: authflow.MetricUnlockLatency, Name: "authflow_unlock_latency_seconds", Help: "Unlock latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session orchestrator.
var HistogramBounds = []string{
	"0.001",
	"0.005",
	"0.025",
	"0.1",
	"0.5",
	"2",
	"10",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session orchestrator.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_005",
	"0_025",
	"0_1",
	"0_5",
	"2",
	"10",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
