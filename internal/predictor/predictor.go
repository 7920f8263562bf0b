package predictor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/analysis"
	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/features"
	"github.com/yourusername/sportcast/internal/metrics"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/odds"
)

// QuoteSource supplies the current odds quotes for a fixture. An empty
// slice means no odds coverage; the pipeline degrades instead of failing.
type QuoteSource interface {
	Quotes(ctx context.Context, match *models.Match) ([]models.OddsQuote, error)
}

// Predictor runs the full pipeline for a fixture: features, ensemble,
// odds analysis, heuristics and the final blend.
type Predictor struct {
	sport    string
	combiner *ensemble.Combiner
	analyzer *odds.Analyzer
	engineer *features.Engineer
	match    *analysis.MatchAnalyzer
	teams    *analysis.TeamAnalyzer
	blender  *Blender
	quotes   QuoteSource
	cache    *DecisionCache
	logger   *logrus.Logger
}

// New creates a predictor for a sport. quotes may be nil when no odds
// feed is configured.
func New(sport string, combiner *ensemble.Combiner, analyzer *odds.Analyzer, quotes QuoteSource, cacheTTL time.Duration, logger *logrus.Logger) *Predictor {
	return &Predictor{
		sport:    sport,
		combiner: combiner,
		analyzer: analyzer,
		engineer: features.NewEngineer(sport, logger),
		match:    analysis.NewMatchAnalyzer(sport, logger),
		teams:    analysis.NewTeamAnalyzer(sport, logger),
		blender:  NewBlender(logger),
		quotes:   quotes,
		cache:    NewDecisionCache(cacheTTL),
		logger:   logger,
	}
}

// Cache exposes the decision cache for operator actions.
func (p *Predictor) Cache() *DecisionCache {
	return p.cache
}

// Train fits the base adapters and the meta-learner on the sample batch
// and drops every cached decision, since they were produced by the old
// state.
func (p *Predictor) Train(samples []models.TrainingSample) (*ensemble.TrainingReport, error) {
	report, err := p.combiner.Train(samples)
	if err != nil {
		return nil, err
	}
	p.cache.Clear()
	return report, nil
}

// Predict produces the decision for a fixture. Decisions are cached; a
// fresh cached decision is returned as-is.
func (p *Predictor) Predict(ctx context.Context, match *models.Match) (*models.Decision, error) {
	start := time.Now()

	key := cacheKey{MatchID: match.ID, Sport: p.sport}
	if cached := p.cache.Get(key); cached != nil {
		p.logger.WithField("match_id", match.ID).Debug("Decision served from cache")
		return cached, nil
	}

	quotes := p.fetchQuotes(ctx, match)

	// Preliminary pass without model probabilities: the feature vector
	// needs the implied market columns before the ensemble can run.
	preliminary := p.analyzer.Analyze(quotes, nil)

	fv, err := p.engineer.Build(match, preliminary)
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("features").Inc()
		return nil, fmt.Errorf("building features: %w", err)
	}

	prediction, err := p.combiner.Predict(fv)
	degraded := false
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("ensemble").Inc()
		if errors.Is(err, models.ErrNotTrained) {
			return nil, fmt.Errorf("ensemble prediction: %w", err)
		}
		// Zero ready adapters still yields a decision: the heuristic
		// signals carry it over a flat prior.
		p.logger.WithError(err).WithField("match_id", match.ID).Warn("Ensemble unavailable, degrading to heuristic signals")
		prediction = p.flatPrediction()
		degraded = true
	}

	outcomeNames := modelOutcomeNames(len(prediction.Probabilities))
	modelProbs := make(map[string]float64, len(outcomeNames))
	for i, name := range outcomeNames {
		modelProbs[name] = prediction.Probabilities[i]
	}

	market := p.analyzer.Analyze(quotes, modelProbs)
	matchAnalysis := p.match.Analyze(match)
	comparison := p.teams.Compare(match)

	rec, err := p.blender.Blend(BlendInput{
		ML:         prediction,
		Market:     market,
		Analysis:   matchAnalysis,
		Comparison: comparison,
	})
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("blend").Inc()
		return nil, fmt.Errorf("blending recommendation: %w", err)
	}

	decision := p.buildDecision(match, prediction, market, rec)
	if degraded {
		decision.KeyFactors = append([]string{"Model ensemble unavailable, heuristic signals only"}, decision.KeyFactors...)
	}
	p.cache.Set(key, decision)

	DecisionsTotal.WithLabelValues(decision.RiskLabel).Inc()
	DecisionConfidence.Observe(decision.Confidence)
	metrics.RecordPrediction(p.sport, time.Since(start).Seconds())
	for range decision.ValueBets {
		metrics.RecordValueBet()
	}
	for range decision.Arbitrage {
		metrics.RecordArbitrage()
	}
	if eff, ok := market.Efficiency[models.MarketH2H]; ok {
		metrics.UpdateMarketEfficiency(p.sport, eff.Efficiency)
	}
	p.logger.WithFields(logrus.Fields{
		"match_id":       match.ID,
		"recommendation": decision.Recommendation,
		"confidence":     decision.Confidence,
		"risk":           decision.RiskLabel,
		"odds_available": decision.OddsAvailable,
	}).Info("Decision produced")
	return decision, nil
}

// flatPrediction stands in for the ensemble when no adapter can
// contribute: a uniform distribution at neutral confidence, with every
// registered adapter counted as excluded.
func (p *Predictor) flatPrediction() *ensemble.Prediction {
	snapshot := p.combiner.Registry().Snapshot()
	classes := 3
	if entries := snapshot.Entries(); len(entries) > 0 {
		classes = entries[0].Model.Classes()
	}
	dist := make(models.Distribution, classes)
	for i := range dist {
		dist[i] = 1.0 / float64(classes)
	}
	return &ensemble.Prediction{
		Probabilities:  dist,
		PredictedClass: dist.ArgMax(),
		Confidence:     defaultComponentConfidence,
		Contributors:   0,
		Excluded:       snapshot.Len(),
	}
}

// fetchQuotes asks the quote source for current prices. Feed failures
// degrade to no odds rather than failing the prediction.
func (p *Predictor) fetchQuotes(ctx context.Context, match *models.Match) []models.OddsQuote {
	if p.quotes == nil {
		return nil
	}
	quotes, err := p.quotes.Quotes(ctx, match)
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("odds_feed").Inc()
		p.logger.WithError(err).WithField("match_id", match.ID).Warn("Odds feed unavailable, proceeding without odds")
		return nil
	}
	return quotes
}

func (p *Predictor) buildDecision(match *models.Match, prediction *ensemble.Prediction, market *odds.Analysis, rec *Recommendation) *models.Decision {
	labels := models.OutcomeLabels(len(rec.Probabilities))
	probs := make(map[string]float64, len(labels))
	for i, label := range labels {
		probs[label] = rec.Probabilities[i]
	}

	return &models.Decision{
		ID:              uuid.New(),
		MatchID:         match.ID,
		Sport:           p.sport,
		Recommendation:  labels[rec.Outcome],
		Probabilities:   probs,
		Confidence:      rec.Confidence,
		RiskLabel:       rec.RiskLabel,
		KeyFactors:      rec.KeyFactors,
		ValueBets:       market.ValueBets,
		Arbitrage:       market.Arbitrage,
		ExcludedModels:  prediction.Excluded,
		ModelsConsulted: prediction.Contributors,
		OddsAvailable:   market.Available,
		PredictedAt:     time.Now().UTC(),
	}
}
