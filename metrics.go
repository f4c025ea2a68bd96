package authkit

import "sync/atomic"

// MetricID identifies a counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported counter identifier.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported counter identifier.
	MetricLoginFailure
	// MetricLoginRateLimited is an exported counter identifier.
	MetricLoginRateLimited
	// MetricSecondFactorRequired is an exported counter identifier.
	MetricSecondFactorRequired
	// MetricSecondFactorSuccess is an exported counter identifier.
	MetricSecondFactorSuccess
	// MetricSecondFactorFailure is an exported counter identifier.
	MetricSecondFactorFailure
	// MetricSecondFactorRateLimited is an exported counter identifier.
	MetricSecondFactorRateLimited
	// MetricContextSelected is an exported counter identifier.
	MetricContextSelected
	// MetricContextSelectionFailure is an exported counter identifier.
	MetricContextSelectionFailure
	// MetricRefreshSuccess is an exported counter identifier.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported counter identifier.
	MetricRefreshFailure
	// MetricLogout is an exported counter identifier.
	MetricLogout
	// MetricBootstrapAuthenticated is an exported counter identifier.
	MetricBootstrapAuthenticated
	// MetricBootstrapUnauthenticated is an exported counter identifier.
	MetricBootstrapUnauthenticated
	// MetricPasswordResetRequest is an exported counter identifier.
	MetricPasswordResetRequest
	// MetricPasswordResetRateLimited is an exported counter identifier.
	MetricPasswordResetRateLimited
	// MetricStaleCompletionDiscarded is an exported counter identifier.
	MetricStaleCompletionDiscarded

	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:             "login_success",
	MetricLoginFailure:             "login_failure",
	MetricLoginRateLimited:         "login_rate_limited",
	MetricSecondFactorRequired:     "second_factor_required",
	MetricSecondFactorSuccess:      "second_factor_success",
	MetricSecondFactorFailure:      "second_factor_failure",
	MetricSecondFactorRateLimited:  "second_factor_rate_limited",
	MetricContextSelected:          "context_selected",
	MetricContextSelectionFailure:  "context_selection_failure",
	MetricRefreshSuccess:           "refresh_success",
	MetricRefreshFailure:           "refresh_failure",
	MetricLogout:                   "logout",
	MetricBootstrapAuthenticated:   "bootstrap_authenticated",
	MetricBootstrapUnauthenticated: "bootstrap_unauthenticated",
	MetricPasswordResetRequest:     "password_reset_request",
	MetricPasswordResetRateLimited: "password_reset_rate_limited",
	MetricStaleCompletionDiscarded: "stale_completion_discarded",
}

// String returns the snake_case counter name.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

// Metrics holds atomic counters for session-lifecycle events. When
// disabled, all operations are no-ops. A nil *Metrics is also valid.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics creates a [Metrics] instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns the current value of the counter for id.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot returns a point-in-time copy of every counter keyed by name.
func (m *Metrics) Snapshot() map[string]uint64 {
	snap := make(map[string]uint64, metricIDCount)
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap[id.String()] = m.counters[id].Load()
	}
	return snap
}
