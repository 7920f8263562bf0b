package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Outcome class indices for head-to-head sports. Two-outcome sports use
// OutcomeHomeWin and OutcomeAwayWin only, with K=2 and no draw slot.
const (
	OutcomeHomeWin = 0
	OutcomeDraw    = 1
	OutcomeAwayWin = 2
)

// DistributionTolerance is the allowed deviation of a probability sum from 1.
const DistributionTolerance = 1e-6

// OutcomeLabels maps class indices to outcome names for a K-class sport.
func OutcomeLabels(classes int) []string {
	if classes == 2 {
		return []string{"home_win", "away_win"}
	}
	return []string{"home_win", "draw", "away_win"}
}

// Distribution is an ordered vector of K outcome probabilities summing to 1.
type Distribution []float64

// Validate checks the probability contract: non-negative entries summing
// to 1 within DistributionTolerance.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDegenerateDistribution)
	}
	sum := 0.0
	for i, p := range d {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: non-finite probability at index %d", ErrDegenerateDistribution, i)
		}
		if p < 0 {
			return fmt.Errorf("%w: negative probability at index %d", ErrDegenerateDistribution, i)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > DistributionTolerance {
		return fmt.Errorf("%w: probabilities sum to %f", ErrDegenerateDistribution, sum)
	}
	return nil
}

// Normalize returns a copy scaled to sum to 1. It fails when the vector has
// a non-positive or non-finite sum, which no amount of rescaling can fix.
func (d Distribution) Normalize() (Distribution, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrDegenerateDistribution)
	}
	sum := 0.0
	for i, p := range d {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, fmt.Errorf("%w: invalid probability at index %d", ErrDegenerateDistribution, i)
		}
		sum += p
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: probabilities sum to %f", ErrDegenerateDistribution, sum)
	}
	out := make(Distribution, len(d))
	for i, p := range d {
		out[i] = p / sum
	}
	return out, nil
}

// ArgMax returns the index of the largest probability. Ties resolve to the
// lowest class index so repeated predictions are reproducible.
func (d Distribution) ArgMax() int {
	best := 0
	for i := 1; i < len(d); i++ {
		if d[i] > d[best] {
			best = i
		}
	}
	return best
}

// Peak returns the largest probability.
func (d Distribution) Peak() float64 {
	if len(d) == 0 {
		return 0
	}
	return d[d.ArgMax()]
}

// Spread returns max minus min probability.
func (d Distribution) Spread() float64 {
	if len(d) == 0 {
		return 0
	}
	min, max := d[0], d[0]
	for _, p := range d[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return max - min
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	copy(out, d)
	return out
}

// Decision is the final record handed to the presentation layer: one
// recommendation with its probability distribution, confidence, risk label
// and the advisory odds output.
type Decision struct {
	ID              uuid.UUID              `json:"id"`
	MatchID         uuid.UUID              `json:"match_id"`
	Sport           string                 `json:"sport"`
	Recommendation  string                 `json:"recommendation"`
	Probabilities   map[string]float64     `json:"probabilities"`
	Confidence      float64                `json:"confidence"`
	RiskLabel       string                 `json:"risk_label"`
	KeyFactors      []string               `json:"key_factors,omitempty"`
	ValueBets       []ValueBet             `json:"value_bets"`
	Arbitrage       []ArbitrageOpportunity `json:"arbitrage_opportunities"`
	ExcludedModels  int                    `json:"excluded_models"`
	ModelsConsulted int                    `json:"models_consulted"`
	OddsAvailable   bool                   `json:"odds_available"`
	PredictedAt     time.Time              `json:"predicted_at"`
}
