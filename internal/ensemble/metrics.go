// Package ensemble provides Prometheus metrics for ensemble operations.
package ensemble

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdapterPredictionsTotal tracks per-adapter prediction calls
	AdapterPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_adapter_predictions_total",
			Help: "Total number of base model adapter predictions",
		},
		[]string{"adapter"},
	)

	// AdapterFailuresTotal tracks per-adapter prediction failures
	AdapterFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_adapter_failures_total",
			Help: "Total number of base model adapter failures excluded from stacking",
		},
		[]string{"adapter"},
	)

	// AdapterSkippedTotal tracks adapters skipped because they were not ready
	AdapterSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_adapter_skipped_total",
			Help: "Total number of adapters skipped because they were not ready",
		},
		[]string{"adapter"},
	)

	// MetaTrainingsTotal tracks meta-learner training runs
	MetaTrainingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_meta_trainings_total",
			Help: "Total number of meta-learner training runs",
		},
		[]string{"status"}, // success, failure
	)

	// MetaTrainingAccuracy reports the last validation accuracy
	MetaTrainingAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ensemble_meta_validation_accuracy",
			Help: "Validation accuracy of the last meta-learner training run",
		},
	)
)
