package odds

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/sportcast/internal/models"
)

// Stake is one currency-safe bet amount.
type Stake struct {
	Outcome   string          `json:"outcome"`
	Bookmaker string          `json:"bookmaker"`
	Price     float64         `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
}

// ValueStake sizes a value bet from the bankroll via its Kelly fraction,
// rounded down to cents so the plan never exceeds the bankroll.
func ValueStake(bankroll decimal.Decimal, bet models.ValueBet) Stake {
	fraction := decimal.NewFromFloat(bet.KellyFraction)
	amount := bankroll.Mul(fraction).RoundDown(2)
	return Stake{
		Outcome:   bet.Outcome,
		Bookmaker: bet.Bookmaker,
		Price:     bet.BestPrice,
		Amount:    amount,
	}
}

// ArbitrageStakes splits the bankroll across the legs of an arbitrage
// opportunity in proportion to each leg's stake fraction. Amounts round
// down to cents; the residue stays unstaked rather than breaking the
// guaranteed-profit balance.
func ArbitrageStakes(bankroll decimal.Decimal, opp models.ArbitrageOpportunity) []Stake {
	stakes := make([]Stake, len(opp.Legs))
	for i, leg := range opp.Legs {
		fraction := decimal.NewFromFloat(leg.StakeFraction)
		stakes[i] = Stake{
			Outcome:   leg.Outcome,
			Bookmaker: leg.Bookmaker,
			Price:     leg.Price,
			Amount:    bankroll.Mul(fraction).RoundDown(2),
		}
	}
	return stakes
}

// GuaranteedReturn computes the payout of an arbitrage stake plan: every
// leg returns stake×price on its outcome, and balanced fractions make those
// returns equal. The minimum across legs is the guaranteed figure.
func GuaranteedReturn(stakes []Stake) decimal.Decimal {
	if len(stakes) == 0 {
		return decimal.Zero
	}
	min := decimal.Zero
	for i, s := range stakes {
		payout := s.Amount.Mul(decimal.NewFromFloat(s.Price))
		if i == 0 || payout.LessThan(min) {
			min = payout
		}
	}
	return min
}
