package odds

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sportcast/internal/models"
)

func TestValueStakeRoundsDown(t *testing.T) {
	bankroll := decimal.NewFromInt(1000)
	bet := models.ValueBet{
		Outcome:       models.OutcomeNameHome,
		Bookmaker:     "alpha",
		BestPrice:     2.5,
		KellyFraction: KellyFraction(0.5, 2.5), // 1/6
	}

	stake := ValueStake(bankroll, bet)

	want := decimal.NewFromFloat(166.66)
	if !stake.Amount.Equal(want) {
		t.Errorf("stake amount = %s, want %s", stake.Amount, want)
	}
	if stake.Bookmaker != "alpha" || stake.Price != 2.5 {
		t.Errorf("stake routing = %s at %f", stake.Bookmaker, stake.Price)
	}
}

func TestArbitrageStakesGuaranteeProfit(t *testing.T) {
	a := newTestAnalyzer(true)
	quotes := []models.OddsQuote{
		h2hQuote("alpha", models.OutcomeNameHome, 2.50),
		h2hQuote("beta", models.OutcomeNameDraw, 3.80),
		h2hQuote("gamma", models.OutcomeNameAway, 4.50),
	}
	opps := a.FindArbitrage(quotes)
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}

	bankroll := decimal.NewFromInt(1000)
	stakes := ArbitrageStakes(bankroll, opps[0])
	if len(stakes) != 3 {
		t.Fatalf("expected 3 stakes, got %d", len(stakes))
	}

	total := decimal.Zero
	for _, s := range stakes {
		total = total.Add(s.Amount)
	}
	if total.GreaterThan(bankroll) {
		t.Errorf("total staked %s exceeds bankroll", total)
	}

	// Every leg pays out more than the total outlay: that is the point.
	guaranteed := GuaranteedReturn(stakes)
	if !guaranteed.GreaterThan(total) {
		t.Errorf("guaranteed return %s does not exceed outlay %s", guaranteed, total)
	}
}

func TestGuaranteedReturnEmpty(t *testing.T) {
	if !GuaranteedReturn(nil).Equal(decimal.Zero) {
		t.Error("expected zero return for empty stake plan")
	}
}
