package predictor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/features"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/odds"
)

type stubQuoteSource struct {
	quotes []models.OddsQuote
	err    error
	calls  int
}

func (s *stubQuoteSource) Quotes(ctx context.Context, match *models.Match) ([]models.OddsQuote, error) {
	s.calls++
	return s.quotes, s.err
}

func fixture(homeStrong bool) *models.Match {
	strong := models.Team{
		Name:  "Strong",
		Stats: models.TeamStats{MatchesPlayed: 10, GoalsFor: 28, GoalsAgainst: 6, PointsPerGame: 2.6, HomeWins: 4, HomeMatches: 5},
	}
	weak := models.Team{
		Name:  "Weak",
		Stats: models.TeamStats{MatchesPlayed: 10, GoalsFor: 7, GoalsAgainst: 24, PointsPerGame: 0.7, HomeWins: 1, HomeMatches: 5},
	}
	for i := 0; i < 5; i++ {
		playedAt := time.Now().AddDate(0, 0, -(i + 1))
		strong.RecentMatches = append(strong.RecentMatches, models.MatchResult{
			HomeTeam: "Strong", AwayTeam: "Filler", HomeScore: 3, AwayScore: 0, PlayedAt: playedAt,
		})
		weak.RecentMatches = append(weak.RecentMatches, models.MatchResult{
			HomeTeam: "Weak", AwayTeam: "Filler", HomeScore: 0, AwayScore: 2, PlayedAt: playedAt,
		})
	}

	match := &models.Match{
		ID:        uuid.New(),
		Sport:     "premier_league",
		KickoffAt: time.Now().Add(48 * time.Hour),
	}
	if homeStrong {
		match.HomeTeam, match.AwayTeam = strong, weak
	} else {
		match.HomeTeam, match.AwayTeam = weak, strong
	}
	return match
}

func trainedPredictor(t *testing.T, quotes QuoteSource) *Predictor {
	t.Helper()
	logger := testLogger()

	registry := ensemble.NewRegistry(logger)
	registry.Register("logistic", ensemble.NewLogisticAdapter("logistic", 3), ensemble.DefaultWeight)
	registry.Register("naive_bayes", ensemble.NewNaiveBayesAdapter("naive_bayes", 3), ensemble.DefaultWeight)
	registry.Register("centroid", ensemble.NewCentroidAdapter("centroid", 3), ensemble.DefaultWeight)
	combiner := ensemble.NewCombiner(registry, logger)

	engineer := features.NewEngineer("premier_league", logger)
	var samples []models.TrainingSample
	for i := 0; i < 8; i++ {
		homeStrong := i%2 == 0
		fv, err := engineer.Build(fixture(homeStrong), nil)
		require.NoError(t, err)
		label := models.OutcomeHomeWin
		if !homeStrong {
			label = models.OutcomeAwayWin
		}
		samples = append(samples, models.TrainingSample{Features: fv, Label: label})
	}
	_, err := combiner.Train(samples)
	require.NoError(t, err)

	analyzer := odds.NewAnalyzer(odds.DefaultValueThreshold, true, logger)
	return New("premier_league", combiner, analyzer, quotes, time.Minute, logger)
}

func h2hQuotes() []models.OddsQuote {
	return []models.OddsQuote{
		{Bookmaker: "alpha", MarketKey: models.MarketH2H, Outcome: models.OutcomeNameHome, Price: 2.1},
		{Bookmaker: "alpha", MarketKey: models.MarketH2H, Outcome: models.OutcomeNameDraw, Price: 3.4},
		{Bookmaker: "alpha", MarketKey: models.MarketH2H, Outcome: models.OutcomeNameAway, Price: 4.2},
	}
}

func TestPredictProducesDecision(t *testing.T) {
	source := &stubQuoteSource{quotes: h2hQuotes()}
	p := trainedPredictor(t, source)

	decision, err := p.Predict(context.Background(), fixture(true))
	require.NoError(t, err)

	assert.True(t, decision.OddsAvailable)
	assert.Equal(t, 3, decision.ModelsConsulted)
	assert.NotEmpty(t, decision.Recommendation)
	assert.NotEmpty(t, decision.RiskLabel)

	sum := 0.0
	for _, p := range decision.Probabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestPredictCachesDecision(t *testing.T) {
	source := &stubQuoteSource{quotes: h2hQuotes()}
	p := trainedPredictor(t, source)
	match := fixture(true)

	first, err := p.Predict(context.Background(), match)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), match)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, source.calls)
}

func TestTrainDropsCachedDecisions(t *testing.T) {
	source := &stubQuoteSource{quotes: h2hQuotes()}
	p := trainedPredictor(t, source)
	match := fixture(true)

	first, err := p.Predict(context.Background(), match)
	require.NoError(t, err)

	engineer := features.NewEngineer("premier_league", testLogger())
	var samples []models.TrainingSample
	for i := 0; i < 8; i++ {
		homeStrong := i%2 == 0
		fv, err := engineer.Build(fixture(homeStrong), nil)
		require.NoError(t, err)
		label := models.OutcomeHomeWin
		if !homeStrong {
			label = models.OutcomeAwayWin
		}
		samples = append(samples, models.TrainingSample{Features: fv, Label: label})
	}
	report, err := p.Train(samples)
	require.NoError(t, err)
	require.NotNil(t, report)

	second, err := p.Predict(context.Background(), match)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "retraining must invalidate cached decisions")
	assert.Equal(t, 2, source.calls)
}

func TestPredictDegradesWithoutOddsFeed(t *testing.T) {
	source := &stubQuoteSource{err: errors.New("feed down")}
	p := trainedPredictor(t, source)

	decision, err := p.Predict(context.Background(), fixture(true))
	require.NoError(t, err)

	assert.False(t, decision.OddsAvailable)
	assert.Empty(t, decision.ValueBets)
	assert.Empty(t, decision.Arbitrage)
}

func TestPredictUntrainedEnsemble(t *testing.T) {
	logger := testLogger()
	registry := ensemble.NewRegistry(logger)
	registry.Register("logistic", ensemble.NewLogisticAdapter("logistic", 3), ensemble.DefaultWeight)
	combiner := ensemble.NewCombiner(registry, logger)
	analyzer := odds.NewAnalyzer(odds.DefaultValueThreshold, true, logger)
	p := New("premier_league", combiner, analyzer, nil, time.Minute, logger)

	_, err := p.Predict(context.Background(), fixture(true))
	assert.ErrorIs(t, err, models.ErrNotTrained)
}

func TestPredictHeuristicOnlyWhenNoAdapterReady(t *testing.T) {
	source := &stubQuoteSource{quotes: h2hQuotes()}
	p := trainedPredictor(t, source)

	// Swapping in fresh untrained adapters leaves the meta-learner trained
	// but every base model not ready.
	registry := p.combiner.Registry()
	registry.Register("logistic", ensemble.NewLogisticAdapter("logistic", 3), ensemble.DefaultWeight)
	registry.Register("naive_bayes", ensemble.NewNaiveBayesAdapter("naive_bayes", 3), ensemble.DefaultWeight)
	registry.Register("centroid", ensemble.NewCentroidAdapter("centroid", 3), ensemble.DefaultWeight)

	decision, err := p.Predict(context.Background(), fixture(true))
	require.NoError(t, err)

	assert.Equal(t, 0, decision.ModelsConsulted)
	assert.Equal(t, 3, decision.ExcludedModels)
	require.NotEmpty(t, decision.KeyFactors)
	assert.Equal(t, "Model ensemble unavailable, heuristic signals only", decision.KeyFactors[0])

	sum := 0.0
	for _, prob := range decision.Probabilities {
		sum += prob
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestDecisionCacheExpiry(t *testing.T) {
	c := NewDecisionCache(10 * time.Millisecond)
	key := cacheKey{MatchID: uuid.New(), Sport: "premier_league"}
	c.Set(key, &models.Decision{ID: uuid.New()})

	require.NotNil(t, c.Get(key))
	time.Sleep(25 * time.Millisecond)
	assert.Nil(t, c.Get(key))

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}
