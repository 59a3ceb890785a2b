// Package telemetry exposes Prometheus instrumentation for simulation and
// ELCC solver activity, in the style of the pack's promauto package-level
// metric declarations.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adequacy_simulations_run_total",
			Help: "Total ProbabilisticSimulation.Run invocations",
		},
		[]string{"status"},
	)

	SimulationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adequacy_simulation_duration_seconds",
			Help:    "Wall-clock duration of a simulation run, bucketed by trial size",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trial_size_bucket"},
	)

	TrialsSampledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adequacy_trials_sampled_total",
			Help: "Total Monte Carlo trials sampled across all simulations",
		},
	)

	ELCCIterationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adequacy_elcc_iterations_total",
			Help: "Total bisection iterations executed by the ELCC solver",
		},
		[]string{"metric"},
	)

	ELCCSolverOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adequacy_elcc_solver_outcome_total",
			Help: "ELCC solver terminal outcomes",
		},
		[]string{"outcome"},
	)
)

// TrialSizeBucket buckets a trial size into the label cardinality
// SimulationDurationSeconds expects, rather than one label per raw value.
func TrialSizeBucket(trialSize int) string {
	switch {
	case trialSize <= 0:
		return "0"
	case trialSize <= 100:
		return "1-100"
	case trialSize <= 1000:
		return "101-1000"
	case trialSize <= 10000:
		return "1001-10000"
	default:
		return "10000+"
	}
}
