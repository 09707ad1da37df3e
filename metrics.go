package authflow

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by authflow APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricPasswordLoginSuccess is an exported constant or variable used by the session orchestrator.
	MetricPasswordLoginSuccess MetricID = iota
	// MetricPasswordLoginFailure is an exported constant or variable used by the session orchestrator.
	MetricPasswordLoginFailure
	// MetricPINUnlockSuccess is an exported constant or variable used by the session orchestrator.
	MetricPINUnlockSuccess
	// MetricPINUnlockFailure is an exported constant or variable used by the session orchestrator.
	MetricPINUnlockFailure
	// MetricBiometricUnlockSuccess is an exported constant or variable used by the session orchestrator.
	MetricBiometricUnlockSuccess
	// MetricBiometricUnlockFailure is an exported constant or variable used by the session orchestrator.
	MetricBiometricUnlockFailure
	// MetricLogout is an exported constant or variable used by the session orchestrator.
	MetricLogout
	// MetricSessionRefreshSuccess is an exported constant or variable used by the session orchestrator.
	MetricSessionRefreshSuccess
	// MetricSessionRefreshFailure is an exported constant or variable used by the session orchestrator.
	MetricSessionRefreshFailure
	// MetricSessionWiped is an exported constant or variable used by the session orchestrator.
	MetricSessionWiped
	// MetricTokenReauth is an exported constant or variable used by the session orchestrator.
	MetricTokenReauth
	// MetricCookieDirectSuccess is an exported constant or variable used by the session orchestrator.
	MetricCookieDirectSuccess
	// MetricCookieDirectFailure is an exported constant or variable used by the session orchestrator.
	MetricCookieDirectFailure
	// MetricHydrationSuccess is an exported constant or variable used by the session orchestrator.
	MetricHydrationSuccess
	// MetricHydrationFailure is an exported constant or variable used by the session orchestrator.
	MetricHydrationFailure
	// MetricHydrationCancelled is an exported constant or variable used by the session orchestrator.
	MetricHydrationCancelled
	// MetricPINRegistered is an exported constant or variable used by the session orchestrator.
	MetricPINRegistered
	// MetricPINRemoved is an exported constant or variable used by the session orchestrator.
	MetricPINRemoved
	// MetricVendorBlocked is an exported constant or variable used by the session orchestrator.
	MetricVendorBlocked
	// MetricUnlockLatency is an exported constant or variable used by the session orchestrator.
	MetricUnlockLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by authflow APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by authflow APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled describes the enabled operation and its observable behavior.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled describes the latencyenabled operation and its observable behavior.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc describes the inc operation and its observable behavior.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe describes the observe operation and its observable behavior.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricUnlockLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value describes the value operation and its observable behavior.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricUnlockLatency].buckets[i])
		}
		s.Histograms[MetricUnlockLatency] = buckets
	}

	return s
}

// Bucket upper bounds: 1ms, 5ms, 25ms, 100ms, 500ms, 2s, 10s, +Inf.
func bucketIndex(d time.Duration) int {
	switch {
	case d < time.Millisecond:
		return 0
	case d < 5*time.Millisecond:
		return 1
	case d < 25*time.Millisecond:
		return 2
	case d < 100*time.Millisecond:
		return 3
	case d < 500*time.Millisecond:
		return 4
	case d < 2*time.Second:
		return 5
	case d < 10*time.Second:
		return 6
	default:
		return 7
	}
}
