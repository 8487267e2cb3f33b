package game

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	NUMBER_MULTIPLIER = decimal.NewFromInt(9)
	SIZE_MULTIPLIER   = decimal.NewFromInt(2)
	COLOR_MULTIPLIER  = decimal.NewFromInt(2)
	VIOLET_MULTIPLIER = decimal.NewFromFloat(4.5)
)

// Settlement is the outcome of closing one period of one mode.
type Settlement struct {
	Result      GameResult      `json:"result"`
	Resolved    []Bet           `json:"resolved"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	Matched     int             `json:"matched"`
	// Notify is set by the session when the player should see a result popup.
	Notify bool `json:"notify"`
}

// MultiplierFor returns the payout multiplier applied to a winning selection.
func MultiplierFor(sel Selection) decimal.Decimal {
	switch sel.Kind {
	case SelectionNumber:
		return NUMBER_MULTIPLIER
	case SelectionSize:
		return SIZE_MULTIPLIER
	case SelectionColor:
		if sel.Color == ColorViolet {
			return VIOLET_MULTIPLIER
		}
		return COLOR_MULTIPLIER
	}
	return decimal.Zero
}

func Wins(sel Selection, o Outcome) bool {
	switch sel.Kind {
	case SelectionNumber:
		return sel.Number == o.Number
	case SelectionSize:
		return sel.Size == o.Size
	case SelectionColor:
		return o.HasColor(sel.Color)
	}
	return false
}

// Settle resolves every pending bet on result's mode and period. Bets for
// other modes or periods, and bets already resolved, are left out. It does
// not mutate its input.
func Settle(result GameResult, bets []Bet, now time.Time) Settlement {
	st := Settlement{
		Result:      result,
		TotalPayout: decimal.Zero,
	}
	outcome := result.Outcome()

	for _, bet := range bets {
		if bet.Mode != result.Mode || bet.PeriodID != result.PeriodID || bet.Status != BetPending {
			continue
		}
		st.Matched++

		settledAt := now
		bet.SettledAt = &settledAt
		if Wins(bet.Selection, outcome) {
			payout := bet.Amount.Mul(MultiplierFor(bet.Selection))
			bet.Status = BetWin
			bet.Payout = &payout
			st.TotalPayout = st.TotalPayout.Add(payout)
		} else {
			bet.Status = BetLoss
			bet.Payout = nil
		}
		st.Resolved = append(st.Resolved, bet)
	}

	return st
}
