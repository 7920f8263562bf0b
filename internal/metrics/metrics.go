// Package metrics provides centralized Prometheus metrics registry for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "predictions_total",
		Help:      "Total number of match predictions produced",
	}, []string{"sport"})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "training_runs_total",
		Help:      "Total number of ensemble training runs",
	}, []string{"status"})
	OddsFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "odds_fetches_total",
		Help:      "Total number of odds feed fetch attempts",
	}, []string{"status"})
	ValueBetsDetectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "value_bets_detected_total",
		Help:      "Total number of value betting opportunities detected",
	})
	ArbitrageDetectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "arbitrage_detected_total",
		Help:      "Total number of arbitrage opportunities detected",
	})
	StreamReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "stream_reconnects_total",
		Help:      "Total number of odds stream reconnection attempts",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sportcast",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of odds feed circuit breaker trips",
	})
)

// Gauge metrics
var (
	TrainedModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sportcast",
		Name:      "trained_models",
		Help:      "Number of base models in the trained ensemble",
	})
	MetaLearnerAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sportcast",
		Name:      "meta_learner_accuracy",
		Help:      "Validation accuracy of the most recent meta-learner training run",
	})
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sportcast",
		Name:      "current_bankroll",
		Help:      "Configured bankroll used for stake sizing in currency units",
	})
	MarketEfficiency = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sportcast",
		Name:      "market_efficiency",
		Help:      "Most recent market efficiency score per sport",
	}, []string{"sport"})
	StreamConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sportcast",
		Name:      "stream_connected",
		Help:      "Whether the odds stream connection is currently established",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sportcast",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of end-to-end prediction requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sportcast",
		Name:      "training_duration_seconds",
		Help:      "Duration of ensemble training runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	OddsFetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sportcast",
		Name:      "odds_fetch_latency_seconds",
		Help:      "Latency of odds feed fetch operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(OddsFetchesTotal)
		registry.MustRegister(ValueBetsDetectedTotal)
		registry.MustRegister(ArbitrageDetectedTotal)
		registry.MustRegister(StreamReconnectsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(TrainedModels)
		registry.MustRegister(MetaLearnerAccuracy)
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(MarketEfficiency)
		registry.MustRegister(StreamConnected)

		// Register histogram metrics
		registry.MustRegister(PredictionLatency)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(OddsFetchLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. Packages that register
// metrics through promauto land on the default registry, so the handler
// gathers from both.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordPrediction records a completed prediction.
func RecordPrediction(sport string, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(sport).Inc()
	PredictionLatency.Observe(durationSeconds)
}

// RecordTrainingRun records a training run outcome.
func RecordTrainingRun(status string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(status).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordOddsFetch records an odds feed fetch attempt.
func RecordOddsFetch(status string, durationSeconds float64) {
	OddsFetchesTotal.WithLabelValues(status).Inc()
	OddsFetchLatency.Observe(durationSeconds)
}

// RecordValueBet records a detected value betting opportunity.
func RecordValueBet() {
	ValueBetsDetectedTotal.Inc()
}

// RecordArbitrage records a detected arbitrage opportunity.
func RecordArbitrage() {
	ArbitrageDetectedTotal.Inc()
}

// RecordStreamReconnect records an odds stream reconnection attempt.
func RecordStreamReconnect() {
	StreamReconnectsTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// UpdateTrainedModels updates the trained models gauge.
func UpdateTrainedModels(count float64) {
	TrainedModels.Set(count)
}

// UpdateMetaLearnerAccuracy updates the meta-learner accuracy gauge.
func UpdateMetaLearnerAccuracy(accuracy float64) {
	MetaLearnerAccuracy.Set(accuracy)
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// UpdateMarketEfficiency updates the market efficiency gauge for a sport.
func UpdateMarketEfficiency(sport string, efficiency float64) {
	MarketEfficiency.WithLabelValues(sport).Set(efficiency)
}

// UpdateStreamConnected updates the stream connection gauge.
func UpdateStreamConnected(connected bool) {
	if connected {
		StreamConnected.Set(1)
		return
	}
	StreamConnected.Set(0)
}
