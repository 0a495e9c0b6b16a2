// Package metrics registers the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LinkOperations counts publication link/unlink mutations by operation.
	LinkOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_link_operations_total",
			Help: "Total number of publication link/unlink operations.",
		},
		[]string{"op"},
	)

	// ReconcileDrift counts scholars whose denormalized publication counters
	// were found stale by the reconciliation job.
	ReconcileDrift = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_reconcile_drift_total",
			Help: "Total number of scholars with stale publication counters repaired by reconciliation.",
		},
	)

	// ReconcileRuns counts completed reconciliation passes.
	ReconcileRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_reconcile_runs_total",
			Help: "Total number of completed counter reconciliation passes.",
		},
	)
)

func init() {
	prometheus.MustRegister(LinkOperations, ReconcileDrift, ReconcileRuns)
}
