package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts produced decisions by risk label.
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportcast_decisions_total",
		Help: "Total number of decisions produced, by risk label",
	}, []string{"risk"})

	// DecisionConfidence tracks the confidence of produced decisions.
	DecisionConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportcast_decision_confidence",
		Help:    "Confidence of produced decisions",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	// CacheHitRatio tracks the decision cache hit ratio.
	CacheHitRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportcast_decision_cache_hit_ratio",
		Help: "Decision cache hit ratio",
	})

	// PredictionFailuresTotal counts pipeline failures by stage.
	PredictionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportcast_prediction_failures_total",
		Help: "Total number of prediction pipeline failures, by stage",
	}, []string{"stage"})
)
