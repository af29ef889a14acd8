// Package metrics exposes Prometheus counters for the moderation
// pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-heatguard/internal/logging"
)

var (
	once sync.Once

	MessagesProcessed prometheus.Counter
	AuditIngested     prometheus.Counter
	AuditDropped      prometheus.Counter

	ViolationsDetected *prometheus.CounterVec
	ActionsExecuted    *prometheus.CounterVec
	ActionFailures     *prometheus.CounterVec
	PanicTriggers      prometheus.Counter

	CacheRefreshes prometheus.Counter
	CacheLoadError prometheus.Counter

	HeatLedgerSize prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesProcessed = promauto.NewCounter(prometheus.CounterOpts{Name: "heatguard_messages_processed_total", Help: "Chat messages run through the classifier"})
		AuditIngested = promauto.NewCounter(prometheus.CounterOpts{Name: "heatguard_audit_events_total", Help: "Audit-log entries enqueued for the anti-nuke engine"})
		AuditDropped = promauto.NewCounter(prometheus.CounterOpts{Name: "heatguard_audit_events_dropped_total", Help: "Audit-log entries dropped on a full ring buffer"})
		ViolationsDetected = promauto.NewCounterVec(prometheus.CounterOpts{Name: "heatguard_violations_total", Help: "Violations by type"}, []string{"type"})
		ActionsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{Name: "heatguard_actions_total", Help: "Remediation actions executed, by action"}, []string{"action"})
		ActionFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "heatguard_action_failures_total", Help: "Remediation actions failed or abandoned, by action"}, []string{"action"})
		PanicTriggers = promauto.NewCounter(prometheus.CounterOpts{Name: "heatguard_panic_triggers_total", Help: "Anti-nuke panic remediations fired"})
		CacheRefreshes = promauto.NewCounter(prometheus.CounterOpts{Name: "heatguard_cache_refreshes_total", Help: "Guild settings cache loads"})
		CacheLoadError = promauto.NewCounter(prometheus.CounterOpts{Name: "heatguard_cache_load_errors_total", Help: "Guild settings loads that failed"})
		HeatLedgerSize = promauto.NewGauge(prometheus.GaugeOpts{Name: "heatguard_heat_ledger_entries", Help: "Users currently holding heat state"})
	})
}

// Serve exposes /metrics on addr. Blocking; run in a goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Error("metrics server stopped: %v", err)
	}
}
