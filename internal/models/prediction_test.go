package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionValidate(t *testing.T) {
	assert.NoError(t, Distribution{0.5, 0.3, 0.2}.Validate())
	assert.ErrorIs(t, Distribution{}.Validate(), ErrDegenerateDistribution)
	assert.ErrorIs(t, Distribution{0.5, 0.6}.Validate(), ErrDegenerateDistribution)
	assert.ErrorIs(t, Distribution{1.2, -0.2}.Validate(), ErrDegenerateDistribution)
	assert.ErrorIs(t, Distribution{math.NaN(), 1}.Validate(), ErrDegenerateDistribution)
	assert.ErrorIs(t, Distribution{math.Inf(1), 0}.Validate(), ErrDegenerateDistribution)
}

func TestDistributionValidateTolerance(t *testing.T) {
	// Sums within the tolerance band pass.
	assert.NoError(t, Distribution{0.5, 0.3, 0.2 + 5e-7}.Validate())
	assert.Error(t, Distribution{0.5, 0.3, 0.2 + 5e-6}.Validate())
}

func TestDistributionNormalize(t *testing.T) {
	d, err := Distribution{2, 1, 1}.Normalize()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d[0], 1e-12)
	assert.NoError(t, d.Validate())

	_, err = Distribution{0, 0}.Normalize()
	assert.ErrorIs(t, err, ErrDegenerateDistribution)
	_, err = Distribution{1, -1}.Normalize()
	assert.ErrorIs(t, err, ErrDegenerateDistribution)
}

func TestArgMaxTieBreaksLow(t *testing.T) {
	assert.Equal(t, 0, Distribution{0.4, 0.4, 0.2}.ArgMax())
	assert.Equal(t, 1, Distribution{0.2, 0.4, 0.4}.ArgMax())
	assert.Equal(t, 0, Distribution{1.0 / 3, 1.0 / 3, 1.0 / 3}.ArgMax())
}

func TestPeakAndSpread(t *testing.T) {
	d := Distribution{0.5, 0.3, 0.2}
	assert.InDelta(t, 0.5, d.Peak(), 1e-12)
	assert.InDelta(t, 0.3, d.Spread(), 1e-12)
	assert.Equal(t, 0.0, Distribution{}.Peak())
	assert.Equal(t, 0.0, Distribution{}.Spread())
}

func TestOutcomeLabels(t *testing.T) {
	assert.Equal(t, []string{"home_win", "draw", "away_win"}, OutcomeLabels(3))
	assert.Equal(t, []string{"home_win", "away_win"}, OutcomeLabels(2))
}

func TestMatchResultWinner(t *testing.T) {
	assert.Equal(t, OutcomeHomeWin, MatchResult{HomeScore: 2, AwayScore: 1}.Winner())
	assert.Equal(t, OutcomeAwayWin, MatchResult{HomeScore: 0, AwayScore: 1}.Winner())
	assert.Equal(t, OutcomeDraw, MatchResult{HomeScore: 1, AwayScore: 1}.Winner())
}
