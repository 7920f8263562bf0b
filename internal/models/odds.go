package models

import "time"

// Market keys for bookmaker quotes.
const (
	MarketH2H     = "h2h"
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
)

// Outcome names used across markets.
const (
	OutcomeNameHome  = "home"
	OutcomeNameDraw  = "draw"
	OutcomeNameAway  = "away"
	OutcomeNameOver  = "over"
	OutcomeNameUnder = "under"
)

// OddsQuote is one bookmaker price for one outcome of one market.
// Quotes are collected externally and treated as read-only input.
type OddsQuote struct {
	Bookmaker string   `json:"bookmaker"`
	MarketKey string   `json:"market_key"`
	Outcome   string   `json:"outcome"`
	Price     float64  `json:"price"`
	Point     *float64 `json:"point,omitempty"`
}

// ImpliedMarket is the per-market implied probability set: mean(1/price)
// per outcome renormalized to sum to 1, with the raw inverse-odds sum kept
// separately as the bookmaker overround.
type ImpliedMarket struct {
	Market         string             `json:"market"`
	Probabilities  map[string]float64 `json:"probabilities"`
	RawProbability map[string]float64 `json:"raw_probability"`
	Overround      float64            `json:"overround"`
}

// ValueBet is a positive-expectation bet against the model's own
// probabilities.
type ValueBet struct {
	Market            string  `json:"market"`
	Outcome           string  `json:"outcome"`
	ModelProbability  float64 `json:"model_probability"`
	MarketProbability float64 `json:"market_probability"`
	BestPrice         float64 `json:"best_price"`
	Bookmaker         string  `json:"bookmaker"`
	ExpectedValue     float64 `json:"expected_value"`
	KellyFraction     float64 `json:"kelly_fraction"`
}

// ArbitrageLeg is one outcome of a risk-free arbitrage spread across
// bookmakers.
type ArbitrageLeg struct {
	Outcome       string  `json:"outcome"`
	Price         float64 `json:"price"`
	Bookmaker     string  `json:"bookmaker"`
	StakeFraction float64 `json:"stake_fraction"`
}

// ArbitrageOpportunity exists when the best prices across bookmakers imply
// probabilities summing below 1 for a fully priced market.
type ArbitrageOpportunity struct {
	Market       string         `json:"market"`
	ProfitMargin float64        `json:"profit_margin"`
	Legs         []ArbitrageLeg `json:"legs"`
}

// OddsSnapshot is one stored quote observation, used for market history
// and feed auditing.
type OddsSnapshot struct {
	OddsQuote

	Sport      string    `json:"sport"`
	EventID    string    `json:"event_id"`
	CapturedAt time.Time `json:"captured_at"`
}

// MarketEfficiency summarizes how tight a market is priced.
type MarketEfficiency struct {
	Market           string  `json:"market"`
	TotalProbability float64 `json:"total_probability"`
	Overround        float64 `json:"overround"`
	Efficiency       float64 `json:"efficiency"`
	MarginPercent    float64 `json:"margin_percent"`
}
