package goCognito

import "sync/atomic"

// MetricID identifies one in-process counter.
type MetricID uint16

const (
	// MetricAdminCreateUser counts successful administrative account creations.
	MetricAdminCreateUser MetricID = iota
	// MetricAdminCreateUserDuplicate counts creations rejected as duplicate.
	MetricAdminCreateUserDuplicate
	// MetricAdminResetByCode counts confirmation-code resets.
	MetricAdminResetByCode
	// MetricAdminResetByTemporaryPassword counts temporary-password resets.
	MetricAdminResetByTemporaryPassword
	// MetricAuthSuccess counts sign-ins that issued tokens directly.
	MetricAuthSuccess
	// MetricAuthChallengeIssued counts sign-ins answered with a challenge.
	MetricAuthChallengeIssued
	// MetricAuthFailure counts rejected sign-ins.
	MetricAuthFailure
	// MetricChallengeSuccess counts resolved challenges.
	MetricChallengeSuccess
	// MetricChallengeFailure counts failed challenge responses.
	MetricChallengeFailure
	// MetricCodeMismatch counts challenge responses with a wrong code.
	MetricCodeMismatch
	// MetricListUsers counts list operations.
	MetricListUsers
	// MetricMessageSent counts delivered out-of-band messages.
	MetricMessageSent
	// MetricTriggerInvoked counts awaited lifecycle-trigger invocations.
	MetricTriggerInvoked
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's atomic counters.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a counter set. When cfg.Enabled is false every
// operation is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counting is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot deep-copies all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
