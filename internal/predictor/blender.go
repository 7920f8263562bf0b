// Package predictor turns ensemble output, market analysis and heuristic
// signals into a single recommendation per fixture.
package predictor

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/analysis"
	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/odds"
)

// Component weights of the documented blend scheme. Only the ML weight
// shapes the distribution; the other signals reach the outcome through
// the confidence mean and the advantage boosts.
const (
	weightML         = 0.6
	weightMarket     = 0.2
	weightAnalysis   = 0.15
	weightComparison = 0.05

	// advantageBoost is added to a side's probability when the team
	// comparison strongly favours it.
	advantageBoost     = 0.05
	advantageThreshold = 0.6

	// defaultComponentConfidence stands in for a component that produced
	// no signal.
	defaultComponentConfidence = 0.5
)

// Risk labels ordered from safest to most speculative.
const (
	RiskLow        = "Low"
	RiskMedium     = "Medium"
	RiskMediumHigh = "Medium-High"
	RiskHigh       = "High"
)

// BlendInput carries every signal available for one fixture. Any field
// except ML may be nil when the corresponding source had nothing to say.
type BlendInput struct {
	ML         *ensemble.Prediction
	Market     *odds.Analysis
	Analysis   *analysis.MatchAnalysis
	Comparison *analysis.TeamComparison
}

// Recommendation is the blended verdict for a fixture.
type Recommendation struct {
	Probabilities models.Distribution `json:"probabilities"`
	Outcome       int                 `json:"outcome"`
	Confidence    float64             `json:"confidence"`
	RiskLabel     string              `json:"risk_label"`
	KeyFactors    []string            `json:"key_factors"`
}

// Blender mixes the component distributions into a recommendation.
type Blender struct {
	logger *logrus.Logger
}

// NewBlender creates a blender.
func NewBlender(logger *logrus.Logger) *Blender {
	return &Blender{logger: logger}
}

// Blend combines the available components. The ML distribution is
// required and is the only one that shapes the final probabilities: it
// is scaled by its weight, the advantage boosts move the scaled vector,
// and a single renormalization produces the result. The market and
// heuristic signals enter through the confidence average and the key
// factors.
func (b *Blender) Blend(in BlendInput) (*Recommendation, error) {
	if in.ML == nil || len(in.ML.Probabilities) == 0 {
		return nil, models.ErrInsufficientData
	}

	blended := make(models.Distribution, len(in.ML.Probabilities))
	for i, p := range in.ML.Probabilities {
		blended[i] = p * weightML
	}

	b.applyAdvantageBoosts(blended, in.Comparison)
	blended, err := blended.Normalize()
	if err != nil {
		return nil, err
	}

	confidence := blendConfidence(in)
	rec := &Recommendation{
		Probabilities: blended,
		Outcome:       blended.ArgMax(),
		Confidence:    confidence,
		RiskLabel:     riskLabel(confidence, blended),
		KeyFactors:    keyFactors(in),
	}

	b.logger.WithFields(logrus.Fields{
		"outcome":    rec.Outcome,
		"confidence": rec.Confidence,
		"risk":       rec.RiskLabel,
	}).Debug("Recommendation blended")
	return rec, nil
}

// applyAdvantageBoosts nudges a side's probability when the team
// comparison strongly favours it. Drawless sports only carry two
// classes, so the away index is resolved from the length.
func (b *Blender) applyAdvantageBoosts(dist models.Distribution, cmp *analysis.TeamComparison) {
	if cmp == nil {
		return
	}
	awayIdx := len(dist) - 1
	if cmp.HomeAdvantage > advantageThreshold {
		dist[models.OutcomeHomeWin] += advantageBoost
	}
	if cmp.AwayAdvantage > advantageThreshold {
		dist[awayIdx] += advantageBoost
	}
}

// blendConfidence averages the four component confidences. A missing
// component contributes the neutral default rather than dropping out, so
// thin inputs read as uncertainty.
func blendConfidence(in BlendInput) float64 {
	values := []float64{
		in.ML.Confidence,
		defaultComponentConfidence,
		defaultComponentConfidence,
		defaultComponentConfidence,
	}
	if in.Market != nil && in.Market.Available {
		values[1] = in.Market.Confidence
	}
	if in.Analysis != nil {
		values[2] = in.Analysis.Confidence
	}
	if in.Comparison != nil {
		values[3] = in.Comparison.Confidence
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// riskLabel walks the ladder top down and returns the first rung that
// matches.
func riskLabel(confidence float64, dist models.Distribution) string {
	peak := dist.Peak()
	switch {
	case confidence > 0.8 && peak > 0.6:
		return RiskLow
	case confidence > 0.6 && peak > 0.5:
		return RiskMedium
	case confidence > 0.4 && dist.Spread() > 0.2:
		return RiskMediumHigh
	default:
		return RiskHigh
	}
}

func keyFactors(in BlendInput) []string {
	var factors []string
	if in.Analysis != nil {
		factors = append(factors, in.Analysis.KeyInsights...)
	}
	if in.Market != nil {
		factors = append(factors, in.Market.Notes...)
	}
	return factors
}

// modelOutcomeNames maps class indices onto market outcome names.
func modelOutcomeNames(classes int) []string {
	if classes == 2 {
		return []string{models.OutcomeNameHome, models.OutcomeNameAway}
	}
	return []string{models.OutcomeNameHome, models.OutcomeNameDraw, models.OutcomeNameAway}
}
