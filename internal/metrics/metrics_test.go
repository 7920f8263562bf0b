package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPrediction("premier_league", 0.05)
	})
}

func TestRecordTrainingRun(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		status   string
		duration float64
	}{
		{
			name:     "successful run",
			status:   "success",
			duration: 12.5,
		},
		{
			name:     "failed run",
			status:   "error",
			duration: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordTrainingRun(tt.status, tt.duration)
			})
		})
	}
}

func TestUpdateBankroll(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		bankroll float64
	}{
		{
			name:     "positive bankroll",
			bankroll: 10000,
		},
		{
			name:     "zero bankroll",
			bankroll: 0,
		},
		{
			name:     "negative bankroll",
			bankroll: -100, // Should still record
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBankroll(tt.bankroll)
			})
		})
	}
}

func TestUpdateMarketEfficiency(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name       string
		sport      string
		efficiency float64
	}{
		{
			name:       "efficient market",
			sport:      "premier_league",
			efficiency: 0.98,
		},
		{
			name:       "inefficient market",
			sport:      "mls",
			efficiency: 0.91,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateMarketEfficiency(tt.sport, tt.efficiency)
			})
		})
	}
}

func TestRecordCircuitBreakerTrip(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCircuitBreakerTrip()
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func TestOddsFeedMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordOddsFetch("success", 0.12)
	})

	assert.NotPanics(t, func() {
		RecordValueBet()
	})

	assert.NotPanics(t, func() {
		RecordArbitrage()
	})

	assert.NotPanics(t, func() {
		RecordStreamReconnect()
	})

	assert.NotPanics(t, func() {
		UpdateStreamConnected(true)
	})
}

func TestEnsembleMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateTrainedModels(3)
	})

	assert.NotPanics(t, func() {
		UpdateMetaLearnerAccuracy(0.72)
	})
}

func BenchmarkRecordPrediction(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPrediction("premier_league", 0.05)
	}
}

func BenchmarkUpdateBankroll(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		UpdateBankroll(10000.0)
	}
}
