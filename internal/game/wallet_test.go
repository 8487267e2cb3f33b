package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallet(t *testing.T) {
	w := NewWallet(decimal.NewFromInt(100))

	bal, err := w.Debit(decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(60)))

	_, err = w.Debit(decimal.NewFromInt(61))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, w.Balance().Equal(decimal.NewFromInt(60)), "failed debit leaves balance alone")

	bal, err = w.Debit(decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, bal.IsZero(), "exact balance can be spent")

	bal, err = w.Credit(decimal.RequireFromString("4.5"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("4.5")))

	_, err = w.Credit(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = w.Debit(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransactionLog(t *testing.T) {
	l := NewTransactionLog()
	l.Add(Transaction{ID: "d1", Kind: TransactionDeposit, Amount: decimal.NewFromInt(500), Status: TransactionPending})
	l.Add(Transaction{ID: "w1", Kind: TransactionWithdraw, Amount: decimal.NewFromInt(100), Status: TransactionPending})
	l.Add(Transaction{ID: "d2", Kind: TransactionDeposit, Amount: decimal.NewFromInt(200), Status: TransactionPending})

	deposits := l.Filter(TransactionDeposit)
	require.Len(t, deposits, 2)
	assert.Equal(t, "d2", deposits[0].ID)
	assert.Len(t, l.Filter(""), 3)

	tx, err := l.Complete("d1", TransactionSuccess)
	require.NoError(t, err)
	assert.Equal(t, TransactionSuccess, tx.Status)

	_, err = l.Complete("d1", TransactionFailed)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	_, err = l.Complete("nope", TransactionSuccess)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Complete("w1", TransactionPending)
	assert.Error(t, err)

	got, ok := l.Get("d1")
	require.True(t, ok)
	assert.Equal(t, TransactionSuccess, got.Status)
}
