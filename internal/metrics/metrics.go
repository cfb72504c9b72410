// Package metrics exposes Prometheus instrumentation for the preparation
// pipeline. All collectors are registered on the default registry and served
// by the /metrics endpoint in cmd/server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimulationsTotal counts circuit evaluations by the state evaluator.
	SimulationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qprep_simulations_total",
		Help: "Number of circuit simulations performed.",
	})

	// TrialsTotal counts finished optimization trials by outcome.
	TrialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qprep_trials_total",
		Help: "Number of finished multi-start trials.",
	}, []string{"status"})

	// TrialDistance observes the terminal distance of successful trials.
	TrialDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qprep_trial_distance",
		Help:    "Terminal objective distance per successful trial.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
	})

	// RunDuration observes wall-clock seconds per multi-start run.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qprep_run_duration_seconds",
		Help:    "Wall-clock duration of multi-start runs.",
		Buckets: prometheus.DefBuckets,
	})
)

// Trial outcome label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
