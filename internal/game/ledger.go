package game

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger records every bet placed in a session. Bets are never removed or
// edited except by Resolve.
type Ledger struct {
	bets  []*Bet
	index map[string]*Bet
}

func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]*Bet)}
}

type BetFilter struct {
	Mode   Mode
	Status BetStatus
}

func (f BetFilter) match(b *Bet) bool {
	if f.Mode != "" && b.Mode != f.Mode {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

func (l *Ledger) Append(b Bet) {
	bet := b
	l.bets = append(l.bets, &bet)
	l.index[bet.ID] = &bet
}

func (l *Ledger) Get(id string) (Bet, bool) {
	b, ok := l.index[id]
	if !ok {
		return Bet{}, false
	}
	return *b, true
}

// Pending returns the bets still waiting on mode's period, oldest first.
func (l *Ledger) Pending(mode Mode, periodID string) []Bet {
	var out []Bet
	for _, b := range l.bets {
		if b.Mode == mode && b.PeriodID == periodID && b.Status == BetPending {
			out = append(out, *b)
		}
	}
	return out
}

// Filter returns matching bets, newest first.
func (l *Ledger) Filter(f BetFilter) []Bet {
	out := make([]Bet, 0)
	for i := len(l.bets) - 1; i >= 0; i-- {
		if f.match(l.bets[i]) {
			out = append(out, *l.bets[i])
		}
	}
	return out
}

// Resolve moves a pending bet to WIN or LOSS. A bet resolves at most once.
func (l *Ledger) Resolve(id string, status BetStatus, payout *decimal.Decimal, at time.Time) error {
	b, ok := l.index[id]
	if !ok {
		return fmt.Errorf("bet %s: %w", id, ErrNotFound)
	}
	if b.Status != BetPending {
		return fmt.Errorf("bet %s is %s: %w", id, b.Status, ErrAlreadyResolved)
	}
	if status != BetWin && status != BetLoss {
		return fmt.Errorf("bet %s: cannot resolve to %s", id, status)
	}

	b.Status = status
	if payout != nil {
		p := *payout
		b.Payout = &p
	}
	settledAt := at
	b.SettledAt = &settledAt
	return nil
}

func (l *Ledger) Len() int {
	return len(l.bets)
}

// BetSlip mirrors the betting sheet: a base amount times a multiplier times a quantity.
type BetSlip struct {
	Amount     decimal.Decimal `json:"amount"`
	Multiplier int             `json:"multiplier"`
	Quantity   int             `json:"quantity"`
}

// Total returns the stake of the slip. Zero multiplier or quantity count as 1.
func (s BetSlip) Total() decimal.Decimal {
	mult := s.Multiplier
	if mult <= 0 {
		mult = 1
	}
	qty := s.Quantity
	if qty <= 0 {
		qty = 1
	}
	return s.Amount.Mul(decimal.NewFromInt(int64(mult))).Mul(decimal.NewFromInt(int64(qty)))
}
