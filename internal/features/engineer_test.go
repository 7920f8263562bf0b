package features

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/odds"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testMatch() *models.Match {
	return &models.Match{
		ID:    uuid.New(),
		Sport: "premier_league",
		HomeTeam: models.Team{
			Name:  "Arsenal",
			Stats: models.TeamStats{MatchesPlayed: 10, GoalsFor: 20, GoalsAgainst: 8, PointsPerGame: 2.1, RestDays: 4},
		},
		AwayTeam: models.Team{
			Name:  "Chelsea",
			Stats: models.TeamStats{MatchesPlayed: 10, GoalsFor: 15, GoalsAgainst: 12, PointsPerGame: 1.6, RestDays: 3, InjuredKeyPlayers: 2},
		},
		KickoffAt: time.Date(2026, time.September, 5, 15, 0, 0, 0, time.UTC),
	}
}

func TestBuildFixedColumnOrder(t *testing.T) {
	e := NewEngineer("premier_league", testLogger())

	fv, err := e.Build(testMatch(), nil)
	require.NoError(t, err)

	assert.Equal(t, e.Names(), fv.Names())
	assert.Equal(t, len(featureNames), fv.Len())
}

func TestBuildMarketFallback(t *testing.T) {
	e := NewEngineer("premier_league", testLogger())

	fv, err := e.Build(testMatch(), nil)
	require.NoError(t, err)

	// Without odds the market columns carry a flat prior.
	home, _ := fv.Value("market_home_prob")
	draw, _ := fv.Value("market_draw_prob")
	away, _ := fv.Value("market_away_prob")
	overround, _ := fv.Value("market_overround")
	assert.InDelta(t, 1.0/3, home, 1e-9)
	assert.InDelta(t, 1.0/3, draw, 1e-9)
	assert.InDelta(t, 1.0/3, away, 1e-9)
	assert.Equal(t, 0.0, overround)
}

func TestBuildMarketColumns(t *testing.T) {
	e := NewEngineer("premier_league", testLogger())
	analyzer := odds.NewAnalyzer(odds.DefaultValueThreshold, true, testLogger())
	quotes := []models.OddsQuote{
		{Bookmaker: "alpha", MarketKey: models.MarketH2H, Outcome: models.OutcomeNameHome, Price: 2.0},
		{Bookmaker: "alpha", MarketKey: models.MarketH2H, Outcome: models.OutcomeNameDraw, Price: 3.5},
		{Bookmaker: "alpha", MarketKey: models.MarketH2H, Outcome: models.OutcomeNameAway, Price: 4.0},
	}
	market := analyzer.Analyze(quotes, nil)

	fv, err := e.Build(testMatch(), market)
	require.NoError(t, err)

	home, _ := fv.Value("market_home_prob")
	implied := market.Implied[models.MarketH2H]
	assert.InDelta(t, implied.Probabilities[models.OutcomeNameHome], home, 1e-9)

	overround, _ := fv.Value("market_overround")
	assert.InDelta(t, implied.Overround, overround, 1e-9)
}

func TestBuildCalendarColumns(t *testing.T) {
	e := NewEngineer("premier_league", testLogger())

	fv, err := e.Build(testMatch(), nil)
	require.NoError(t, err)

	weekday, _ := fv.Value("kickoff_weekday")
	hour, _ := fv.Value("kickoff_hour")
	assert.Equal(t, float64(time.Saturday), weekday)
	assert.Equal(t, 15.0, hour)

	injuries, _ := fv.Value("away_injured_key_players")
	assert.Equal(t, 2.0, injuries)
}
