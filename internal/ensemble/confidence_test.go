package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/sportcast/internal/models"
)

func TestConfidenceEmptyEnsemble(t *testing.T) {
	assert.Equal(t, 0.0, ConfidenceScore(nil, nil))
}

func TestConfidenceSingleModelIsPeak(t *testing.T) {
	ensemble := models.Distribution{0.7, 0.2, 0.1}
	individual := []models.Distribution{{0.7, 0.2, 0.1}}

	assert.InDelta(t, 0.7, ConfidenceScore(individual, ensemble), 1e-9)
}

func TestConfidencePerfectAgreementIsPeak(t *testing.T) {
	ensemble := models.Distribution{0.6, 0.3, 0.1}
	individual := []models.Distribution{
		{0.6, 0.3, 0.1},
		{0.6, 0.3, 0.1},
		{0.6, 0.3, 0.1},
	}

	// Zero variance means the agreement factor is exactly 1.
	assert.InDelta(t, 0.6, ConfidenceScore(individual, ensemble), 1e-9)
}

func TestConfidenceDisagreementPenalized(t *testing.T) {
	ensemble := models.Distribution{0.5, 0.3, 0.2}
	agreeing := []models.Distribution{
		{0.5, 0.3, 0.2},
		{0.5, 0.3, 0.2},
	}
	disagreeing := []models.Distribution{
		{0.9, 0.05, 0.05},
		{0.1, 0.55, 0.35},
	}

	agreed := ConfidenceScore(agreeing, ensemble)
	disputed := ConfidenceScore(disagreeing, ensemble)
	assert.Greater(t, agreed, disputed)
	assert.LessOrEqual(t, disputed, 1.0)
	assert.GreaterOrEqual(t, disputed, 0.0)
}

func TestConfidenceOrderInvariant(t *testing.T) {
	ensemble := models.Distribution{0.5, 0.3, 0.2}
	a := models.Distribution{0.8, 0.1, 0.1}
	b := models.Distribution{0.2, 0.5, 0.3}

	forward := ConfidenceScore([]models.Distribution{a, b}, ensemble)
	reverse := ConfidenceScore([]models.Distribution{b, a}, ensemble)
	assert.InDelta(t, forward, reverse, 1e-12)
}
