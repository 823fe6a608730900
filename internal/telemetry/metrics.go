package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DiagnosesTotal counts completed diagnostic requests by outcome
	// (resolved, unknown_device, unknown_problem, error).
	DiagnosesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairdiag",
			Name:      "diagnoses_total",
			Help:      "Total number of diagnostic requests processed",
		},
		[]string{"outcome"},
	)

	// CacheLookups counts response cache lookups by result (hit, miss, corrupt).
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairdiag",
			Name:      "cache_lookups_total",
			Help:      "Total number of response cache lookups",
		},
		[]string{"result"},
	)

	// SignalExtractions counts user-agent extraction attempts by result
	// (ok, no_signal, timeout).
	SignalExtractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairdiag",
			Name:      "signal_extractions_total",
			Help:      "Total number of user-agent signal extraction attempts",
		},
		[]string{"result"},
	)

	// SnapshotReloads counts catalog snapshot reloads by status (ok, failed).
	SnapshotReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairdiag",
			Name:      "snapshot_reloads_total",
			Help:      "Total number of catalog snapshot reload attempts",
		},
		[]string{"status"},
	)

	// CatalogDevices tracks the device count of the current snapshot.
	CatalogDevices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "repairdiag",
			Name:      "catalog_devices",
			Help:      "Number of devices in the active catalog snapshot",
		},
	)

	// PipelineDuration observes end-to-end diagnose latency in seconds.
	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "repairdiag",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end diagnostic pipeline duration",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(DiagnosesTotal)
		prometheus.DefaultRegisterer.Register(CacheLookups)
		prometheus.DefaultRegisterer.Register(SignalExtractions)
		prometheus.DefaultRegisterer.Register(SnapshotReloads)
		prometheus.DefaultRegisterer.Register(CatalogDevices)
		prometheus.DefaultRegisterer.Register(PipelineDuration)
	})
}
