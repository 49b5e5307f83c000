// Package metrics holds Prometheus instruments shared by the session, auth,
// and guard layers.  All collectors are registered with the global registry,
// so mounting promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ta_active_sessions",
			Help: "Number of visitor session stores currently held in memory.",
		})

	SessionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ta_session_evict_total",
			Help: "Cumulative number of visitor session stores evicted.",
		})

	SessionRestoreTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_session_restore_total",
			Help: "Session restores by outcome (authenticated, anonymous, stale, error).",
		}, []string{"outcome"})

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_login_attempts_total",
			Help: "Login attempts by method (password, social) and outcome.",
		}, []string{"method", "outcome"})

	GuardDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_guard_decisions_total",
			Help: "Route guard decisions by action (render, login, landing).",
		}, []string{"action"})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionEvictTotal,
		SessionRestoreTotal,
		LoginAttemptsTotal,
		GuardDecisionsTotal,
	)
}
