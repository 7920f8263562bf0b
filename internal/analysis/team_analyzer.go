package analysis

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// TeamComparison scores each side's edge on a [0,1] scale. The blender
// treats an advantage above 0.6 as a boost signal.
type TeamComparison struct {
	HomeAdvantage    float64 `json:"home_advantage"`
	AwayAdvantage    float64 `json:"away_advantage"`
	RatingDifference float64 `json:"rating_difference"`
	PredictedOutcome string  `json:"predicted_outcome"`
	Confidence       float64 `json:"confidence"`
}

// TeamAnalyzer compares the two sides of a fixture directly.
type TeamAnalyzer struct {
	analyzer *MatchAnalyzer
	logger   *logrus.Logger
}

// NewTeamAnalyzer creates a comparer backed by the match analyzer's
// strength model.
func NewTeamAnalyzer(sport string, logger *logrus.Logger) *TeamAnalyzer {
	return &TeamAnalyzer{
		analyzer: NewMatchAnalyzer(sport, logger),
		logger:   logger,
	}
}

// Compare rates both teams. The home side gets a flat 0.1 venue bonus
// before the scores are clamped.
func (t *TeamAnalyzer) Compare(match *models.Match) *TeamComparison {
	home := t.analyzer.teamStrength(match.HomeTeam)
	away := t.analyzer.teamStrength(match.AwayTeam)

	comparison := &TeamComparison{
		HomeAdvantage:    clamp01(home - away + 0.1),
		AwayAdvantage:    clamp01(away - home),
		RatingDifference: home - away,
	}

	switch {
	case comparison.HomeAdvantage > 0.6:
		comparison.PredictedOutcome = AdvantageHome
	case comparison.AwayAdvantage > 0.6:
		comparison.PredictedOutcome = AdvantageAway
	default:
		comparison.PredictedOutcome = AdvantageNeutral
	}

	// Confidence tracks how far apart the sides are, capped so a
	// heuristic signal never reads as certain.
	gap := comparison.RatingDifference
	if gap < 0 {
		gap = -gap
	}
	comparison.Confidence = clamp01(0.5 + gap)

	t.logger.WithFields(logrus.Fields{
		"match_id":  match.ID,
		"home_edge": comparison.HomeAdvantage,
		"away_edge": comparison.AwayAdvantage,
	}).Debug("Team comparison completed")
	return comparison
}
