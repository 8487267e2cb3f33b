package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Wallet is a single balance. Callers serialize access.
type Wallet struct {
	balance decimal.Decimal
}

func NewWallet(initial decimal.Decimal) *Wallet {
	return &Wallet{balance: initial}
}

func (w *Wallet) Balance() decimal.Decimal {
	return w.balance
}

func (w *Wallet) Credit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return w.balance, fmt.Errorf("%w: credit of %s", ErrInvalidAmount, amount)
	}
	w.balance = w.balance.Add(amount)
	return w.balance, nil
}

func (w *Wallet) Debit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return w.balance, fmt.Errorf("%w: debit of %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(w.balance) {
		return w.balance, fmt.Errorf("%w: need %s, have %s", ErrInsufficientBalance, amount, w.balance)
	}
	w.balance = w.balance.Sub(amount)
	return w.balance, nil
}
