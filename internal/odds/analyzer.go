// Package odds converts bookmaker quotes into implied probabilities, finds
// positive-expectation bets against the model's own distribution, sizes
// stakes via the Kelly criterion and scans quotes for closed-form arbitrage.
package odds

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// DefaultValueThreshold is the minimum expected value for a bet to be
// surfaced.
const DefaultValueThreshold = 0.05

// KellyCap is the hard safety cap on Kelly stake fractions.
const KellyCap = 0.25

// Analysis is the engine's advisory output for one match. The engine never
// raises on absent odds data; Available=false marks the degraded case and
// every collection stays empty so blending falls back to pure ML signal.
type Analysis struct {
	Available  bool                               `json:"odds_available"`
	Implied    map[string]*models.ImpliedMarket   `json:"implied_probabilities,omitempty"`
	ValueBets  []models.ValueBet                  `json:"value_bets"`
	Arbitrage  []models.ArbitrageOpportunity      `json:"arbitrage_opportunities"`
	Efficiency map[string]models.MarketEfficiency `json:"market_efficiency,omitempty"`
	Confidence float64                            `json:"confidence"`
	Notes      []string                           `json:"notes,omitempty"`
}

// Analyzer implements the odds-value and arbitrage engine.
type Analyzer struct {
	valueThreshold float64
	drawPossible   bool
	logger         *logrus.Logger
}

// NewAnalyzer creates an analyzer. drawPossible selects the h2h outcome set:
// {home, draw, away} for head-to-head sports, {home, away} otherwise.
func NewAnalyzer(valueThreshold float64, drawPossible bool, logger *logrus.Logger) *Analyzer {
	if valueThreshold <= 0 {
		valueThreshold = DefaultValueThreshold
	}
	return &Analyzer{valueThreshold: valueThreshold, drawPossible: drawPossible, logger: logger}
}

// marketOutcomes returns the full outcome set a market must price for
// arbitrage consideration.
func (a *Analyzer) marketOutcomes(market string) []string {
	switch market {
	case models.MarketH2H:
		if a.drawPossible {
			return []string{models.OutcomeNameHome, models.OutcomeNameDraw, models.OutcomeNameAway}
		}
		return []string{models.OutcomeNameHome, models.OutcomeNameAway}
	case models.MarketSpreads:
		return []string{models.OutcomeNameHome, models.OutcomeNameAway}
	case models.MarketTotals:
		return []string{models.OutcomeNameOver, models.OutcomeNameUnder}
	default:
		return nil
	}
}

// groupQuotes indexes quotes by market then outcome.
func groupQuotes(quotes []models.OddsQuote) map[string]map[string][]models.OddsQuote {
	grouped := make(map[string]map[string][]models.OddsQuote)
	for _, q := range quotes {
		if q.Price <= 1.0 {
			continue
		}
		byOutcome, ok := grouped[q.MarketKey]
		if !ok {
			byOutcome = make(map[string][]models.OddsQuote)
			grouped[q.MarketKey] = byOutcome
		}
		byOutcome[q.Outcome] = append(byOutcome[q.Outcome], q)
	}
	return grouped
}

// bestQuote returns the highest-priced quote for an outcome.
func bestQuote(quotes []models.OddsQuote) models.OddsQuote {
	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.Price > best.Price {
			best = q
		}
	}
	return best
}

// ImpliedProbabilities averages 1/price across bookmakers per outcome, then
// renormalizes each market to sum to 1. The raw inverse-odds sum is retained
// as the market overround.
func (a *Analyzer) ImpliedProbabilities(quotes []models.OddsQuote) map[string]*models.ImpliedMarket {
	grouped := groupQuotes(quotes)
	out := make(map[string]*models.ImpliedMarket, len(grouped))

	for market, byOutcome := range grouped {
		raw := make(map[string]float64, len(byOutcome))
		total := 0.0
		for outcome, outcomeQuotes := range byOutcome {
			sum := 0.0
			for _, q := range outcomeQuotes {
				sum += 1.0 / q.Price
			}
			mean := sum / float64(len(outcomeQuotes))
			raw[outcome] = mean
			total += mean
		}

		normalized := make(map[string]float64, len(raw))
		for outcome, p := range raw {
			if total > 0 {
				normalized[outcome] = p / total
			}
		}
		out[market] = &models.ImpliedMarket{
			Market:         market,
			Probabilities:  normalized,
			RawProbability: raw,
			Overround:      total - 1.0,
		}
	}
	return out
}

// KellyFraction computes the Kelly criterion stake fraction for a true
// probability p at a decimal price, clamped to [0, KellyCap]. It returns 0
// when price or probability make the formula meaningless.
func KellyFraction(p, price float64) float64 {
	if price <= 1 || p <= 0 {
		return 0
	}
	b := price - 1
	q := 1 - p
	f := (b*p - q) / b
	if f < 0 {
		return 0
	}
	if f > KellyCap {
		return KellyCap
	}
	return f
}

// FindValueBets compares the model's outcome probabilities against market
// implied probabilities and surfaces outcomes whose best available price
// carries expected value above the threshold, sorted descending by expected
// value. modelProbs maps outcome name to model probability for the h2h
// market.
func (a *Analyzer) FindValueBets(quotes []models.OddsQuote, modelProbs map[string]float64) []models.ValueBet {
	grouped := groupQuotes(quotes)
	implied := a.ImpliedProbabilities(quotes)

	byOutcome, ok := grouped[models.MarketH2H]
	if !ok {
		return nil
	}
	market := implied[models.MarketH2H]

	var bets []models.ValueBet
	for _, outcome := range a.marketOutcomes(models.MarketH2H) {
		modelProb, ok := modelProbs[outcome]
		if !ok {
			continue
		}
		marketProb := market.Probabilities[outcome]
		if modelProb <= marketProb {
			continue
		}
		outcomeQuotes, ok := byOutcome[outcome]
		if !ok {
			continue
		}
		best := bestQuote(outcomeQuotes)
		expectedValue := modelProb*best.Price - 1
		if expectedValue <= a.valueThreshold {
			continue
		}
		bets = append(bets, models.ValueBet{
			Market:            models.MarketH2H,
			Outcome:           outcome,
			ModelProbability:  modelProb,
			MarketProbability: marketProb,
			BestPrice:         best.Price,
			Bookmaker:         best.Bookmaker,
			ExpectedValue:     expectedValue,
			KellyFraction:     KellyFraction(modelProb, best.Price),
		})
	}

	sort.Slice(bets, func(i, j int) bool {
		return bets[i].ExpectedValue > bets[j].ExpectedValue
	})
	return bets
}

// FindArbitrage scans every market whose full outcome set is priced for
// risk-free opportunities: taking the best price per outcome, an opportunity
// exists iff the inverse prices sum below 1. Results sort descending by
// profit margin.
func (a *Analyzer) FindArbitrage(quotes []models.OddsQuote) []models.ArbitrageOpportunity {
	grouped := groupQuotes(quotes)

	var opportunities []models.ArbitrageOpportunity
	for market, byOutcome := range grouped {
		required := a.marketOutcomes(market)
		if required == nil {
			continue
		}

		best := make([]models.OddsQuote, 0, len(required))
		complete := true
		for _, outcome := range required {
			outcomeQuotes, ok := byOutcome[outcome]
			if !ok {
				complete = false
				break
			}
			best = append(best, bestQuote(outcomeQuotes))
		}
		if !complete {
			continue
		}

		totalInverse := 0.0
		for _, q := range best {
			totalInverse += 1.0 / q.Price
		}
		if totalInverse >= 1 {
			continue
		}

		legs := make([]models.ArbitrageLeg, len(best))
		for i, q := range best {
			legs[i] = models.ArbitrageLeg{
				Outcome:       q.Outcome,
				Price:         q.Price,
				Bookmaker:     q.Bookmaker,
				StakeFraction: (1.0 / q.Price) / totalInverse,
			}
		}
		opportunities = append(opportunities, models.ArbitrageOpportunity{
			Market:       market,
			ProfitMargin: (1 - totalInverse) * 100,
			Legs:         legs,
		})
	}

	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].ProfitMargin > opportunities[j].ProfitMargin
	})
	return opportunities
}

// MarketEfficiency derives overround and efficiency per market from the raw
// (non-renormalized) implied probabilities.
func (a *Analyzer) MarketEfficiency(implied map[string]*models.ImpliedMarket) map[string]models.MarketEfficiency {
	out := make(map[string]models.MarketEfficiency, len(implied))
	for market, m := range implied {
		total := 0.0
		for _, p := range m.RawProbability {
			total += p
		}
		eff := models.MarketEfficiency{
			Market:           market,
			TotalProbability: total,
			Overround:        total - 1.0,
			MarginPercent:    (total - 1.0) * 100,
		}
		if total > 0 {
			eff.Efficiency = 1.0 / total
		}
		out[market] = eff
	}
	return out
}

// Analyze runs the full engine for one match: implied probabilities, value
// bets against the model distribution, arbitrage and market efficiency, plus
// a confidence score for the odds data itself.
func (a *Analyzer) Analyze(quotes []models.OddsQuote, modelProbs map[string]float64) *Analysis {
	if len(quotes) == 0 {
		return &Analysis{
			Available: false,
			ValueBets: []models.ValueBet{},
			Arbitrage: []models.ArbitrageOpportunity{},
			Notes:     []string{"no odds data available"},
		}
	}

	implied := a.ImpliedProbabilities(quotes)
	valueBets := a.FindValueBets(quotes, modelProbs)
	arbitrage := a.FindArbitrage(quotes)
	efficiency := a.MarketEfficiency(implied)

	analysis := &Analysis{
		Available:  true,
		Implied:    implied,
		ValueBets:  valueBets,
		Arbitrage:  arbitrage,
		Efficiency: efficiency,
		Confidence: a.oddsConfidence(quotes),
		Notes:      a.notes(valueBets, arbitrage, efficiency),
	}

	a.logger.WithFields(logrus.Fields{
		"quotes":     len(quotes),
		"value_bets": len(valueBets),
		"arbitrage":  len(arbitrage),
	}).Debug("Odds analysis completed")
	return analysis
}

// oddsConfidence scores how trustworthy the odds snapshot is: more
// bookmakers, wider market coverage and tighter price dispersion all raise
// it.
func (a *Analyzer) oddsConfidence(quotes []models.OddsQuote) float64 {
	bookmakers := make(map[string]struct{})
	markets := make(map[string]struct{})
	var homePrices []float64
	for _, q := range quotes {
		bookmakers[q.Bookmaker] = struct{}{}
		markets[q.MarketKey] = struct{}{}
		if q.MarketKey == models.MarketH2H && q.Outcome == models.OutcomeNameHome {
			homePrices = append(homePrices, q.Price)
		}
	}

	var factors []float64
	switch {
	case len(bookmakers) >= 5:
		factors = append(factors, 0.9)
	case len(bookmakers) >= 3:
		factors = append(factors, 0.7)
	default:
		factors = append(factors, 0.5)
	}
	switch {
	case len(markets) >= 2:
		factors = append(factors, 0.8)
	case len(markets) >= 1:
		factors = append(factors, 0.6)
	default:
		factors = append(factors, 0.3)
	}
	if len(homePrices) > 1 {
		std := stdDev(homePrices)
		switch {
		case std < 0.1:
			factors = append(factors, 0.8)
		case std < 0.2:
			factors = append(factors, 0.6)
		default:
			factors = append(factors, 0.4)
		}
	}

	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

// notes builds the operator-facing summary lines.
func (a *Analyzer) notes(valueBets []models.ValueBet, arbitrage []models.ArbitrageOpportunity, efficiency map[string]models.MarketEfficiency) []string {
	var notes []string
	if len(arbitrage) > 0 {
		notes = append(notes, "arbitrage opportunity with guaranteed profit margin available")
	}
	if len(valueBets) > 0 {
		if valueBets[0].ExpectedValue > 0.1 {
			notes = append(notes, "strong value bet identified")
		} else {
			notes = append(notes, "moderate value bet identified")
		}
	}
	if h2h, ok := efficiency[models.MarketH2H]; ok {
		if h2h.MarginPercent > 10 {
			notes = append(notes, "high bookmaker margin, consider avoiding")
		} else if h2h.MarginPercent < 5 {
			notes = append(notes, "competitive market with low margin")
		}
	}
	if len(notes) == 0 {
		notes = append(notes, "no significant betting opportunities identified")
	}
	return notes
}

func stdDev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
