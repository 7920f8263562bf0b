// Package features turns match context into the fixed-order numeric
// vectors the base models consume.
package features

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/analysis"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/odds"
)

// featureNames is the canonical column order. Training and inference
// vectors must agree on it, so it never changes at runtime.
var featureNames = []string{
	"home_form_points",
	"away_form_points",
	"form_difference",
	"home_goals_per_game",
	"away_goals_per_game",
	"home_goals_against_per_game",
	"away_goals_against_per_game",
	"h2h_home_win_rate",
	"h2h_away_win_rate",
	"h2h_matches",
	"home_advantage",
	"home_strength",
	"away_strength",
	"strength_difference",
	"home_rest_days",
	"away_rest_days",
	"home_injured_key_players",
	"away_injured_key_players",
	"market_home_prob",
	"market_draw_prob",
	"market_away_prob",
	"market_overround",
	"kickoff_weekday",
	"kickoff_hour",
}

// Engineer builds feature vectors for one sport.
type Engineer struct {
	analyzer *analysis.MatchAnalyzer
	logger   *logrus.Logger
}

// NewEngineer creates a feature engineer.
func NewEngineer(sport string, logger *logrus.Logger) *Engineer {
	return &Engineer{
		analyzer: analysis.NewMatchAnalyzer(sport, logger),
		logger:   logger,
	}
}

// Names returns the canonical column order.
func Names() []string {
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return names
}

// Names returns the canonical column order.
func (e *Engineer) Names() []string {
	return Names()
}

// Build assembles the feature vector for a fixture. Market columns fall
// back to a flat prior when the analysis carries no h2h prices.
func (e *Engineer) Build(match *models.Match, market *odds.Analysis) (*models.FeatureVector, error) {
	ma := e.analyzer.Analyze(match)

	marketHome, marketDraw, marketAway, overround := marketColumns(market)

	values := map[string]float64{
		"home_form_points":            ma.RecentForm.Home.PointsPerGame,
		"away_form_points":            ma.RecentForm.Away.PointsPerGame,
		"form_difference":             ma.RecentForm.Difference,
		"home_goals_per_game":         ma.RecentForm.Home.GoalsPerGame,
		"away_goals_per_game":         ma.RecentForm.Away.GoalsPerGame,
		"home_goals_against_per_game": ma.RecentForm.Home.GoalsAgainstPerGame,
		"away_goals_against_per_game": ma.RecentForm.Away.GoalsAgainstPerGame,
		"h2h_home_win_rate":           ma.HeadToHead.HomeWinRate,
		"h2h_away_win_rate":           ma.HeadToHead.AwayWinRate,
		"h2h_matches":                 float64(ma.HeadToHead.TotalMatches),
		"home_advantage":              ma.HomeAdvantage.Total,
		"home_strength":               ma.TeamStrength.Home,
		"away_strength":               ma.TeamStrength.Away,
		"strength_difference":         ma.TeamStrength.Difference,
		"home_rest_days":              float64(match.HomeTeam.Stats.RestDays),
		"away_rest_days":              float64(match.AwayTeam.Stats.RestDays),
		"home_injured_key_players":    float64(match.HomeTeam.Stats.InjuredKeyPlayers),
		"away_injured_key_players":    float64(match.AwayTeam.Stats.InjuredKeyPlayers),
		"market_home_prob":            marketHome,
		"market_draw_prob":            marketDraw,
		"market_away_prob":            marketAway,
		"market_overround":            overround,
		"kickoff_weekday":             float64(match.KickoffAt.Weekday()),
		"kickoff_hour":                float64(match.KickoffAt.Hour()),
	}

	ordered := make([]float64, len(featureNames))
	for i, name := range featureNames {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("feature %q has no value", name)
		}
		ordered[i] = v
	}
	return models.NewFeatureVector(featureNames, ordered)
}

func marketColumns(market *odds.Analysis) (home, draw, away, overround float64) {
	home, draw, away = 1.0/3, 1.0/3, 1.0/3
	if market == nil || !market.Available {
		return home, draw, away, 0
	}
	implied, ok := market.Implied[models.MarketH2H]
	if !ok {
		return home, draw, away, 0
	}
	if p, ok := implied.Probabilities[models.OutcomeNameHome]; ok {
		home = p
	}
	if p, ok := implied.Probabilities[models.OutcomeNameDraw]; ok {
		draw = p
	} else {
		draw = 0
	}
	if p, ok := implied.Probabilities[models.OutcomeNameAway]; ok {
		away = p
	}
	return home, draw, away, implied.Overround
}
