// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for the prediction pipeline.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogDecision logs a produced decision.
func (pl *PredictionLogger) LogDecision(matchID, recommendation, riskLabel string, confidence float64, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"match_id":       matchID,
		"recommendation": recommendation,
		"risk_label":     riskLabel,
		"confidence":     confidence,
		"cache_hit":      cacheHit,
		"latency_ms":     latencyMs,
	}).Info("Decision produced")
}

// LogModelTraining logs an ensemble training run.
func (pl *PredictionLogger) LogModelTraining(sport string, trainingSamples, validationSamples int, validationAccuracy, durationSeconds float64) {
	pl.WithFields(logrus.Fields{
		"sport":               sport,
		"training_samples":    trainingSamples,
		"validation_samples":  validationSamples,
		"validation_accuracy": validationAccuracy,
		"duration_seconds":    durationSeconds,
	}).Info("Ensemble training completed")
}

// LogOddsSnapshot logs an odds collection pass.
func (pl *PredictionLogger) LogOddsSnapshot(sport string, matches, quotes, bookmakers int) {
	pl.WithFields(logrus.Fields{
		"sport":      sport,
		"matches":    matches,
		"quotes":     quotes,
		"bookmakers": bookmakers,
	}).Info("Odds snapshot collected")
}

// LogValueBet logs a surfaced value bet.
func (pl *PredictionLogger) LogValueBet(matchID, outcome, bookmaker string, expectedValue, kellyFraction float64) {
	pl.WithFields(logrus.Fields{
		"match_id":       matchID,
		"outcome":        outcome,
		"bookmaker":      bookmaker,
		"expected_value": expectedValue,
		"kelly_fraction": kellyFraction,
	}).Info("Value bet identified")
}

// LogArbitrage logs a detected arbitrage opportunity.
func (pl *PredictionLogger) LogArbitrage(matchID, market string, profitMargin float64, legs int) {
	pl.WithFields(logrus.Fields{
		"match_id":      matchID,
		"market":        market,
		"profit_margin": profitMargin,
		"legs":          legs,
	}).Info("Arbitrage opportunity detected")
}

// LogPredictionError logs a pipeline failure.
func (pl *PredictionLogger) LogPredictionError(matchID, stage, errorReason string) {
	pl.WithFields(logrus.Fields{
		"match_id":     matchID,
		"stage":        stage,
		"error_reason": errorReason,
	}).Error("Prediction failed")
}
