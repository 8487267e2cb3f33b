package game

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_PendingAndFilter(t *testing.T) {
	l := NewLedger()
	l.Append(pendingBet("a", Mode30S, "1", ColorSelection(ColorRed), 10))
	l.Append(pendingBet("b", Mode1M, "1", NumberSelection(3), 20))
	l.Append(pendingBet("c", Mode30S, "1", SizeSelection(SizeBig), 30))
	l.Append(pendingBet("d", Mode30S, "2", SizeSelection(SizeBig), 40))

	pending := l.Pending(Mode30S, "1")
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID, "oldest first")
	assert.Equal(t, "c", pending[1].ID)

	all := l.Filter(BetFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID, "newest first")

	require.NoError(t, l.Resolve("c", BetLoss, nil, time.Now()))
	assert.Len(t, l.Filter(BetFilter{Mode: Mode30S, Status: BetPending}), 2)
	assert.Len(t, l.Filter(BetFilter{Status: BetLoss}), 1)
	assert.NotNil(t, l.Filter(BetFilter{Status: BetWin}), "empty result is a non-nil slice")
	assert.Equal(t, 4, l.Len())
}

func TestLedger_ResolveOnce(t *testing.T) {
	l := NewLedger()
	l.Append(pendingBet("a", Mode30S, "1", NumberSelection(7), 50))

	payout := decimal.NewFromInt(450)
	require.NoError(t, l.Resolve("a", BetWin, &payout, time.Now()))

	bet, ok := l.Get("a")
	require.True(t, ok)
	assert.Equal(t, BetWin, bet.Status)
	assert.True(t, bet.Payout.Equal(payout))
	assert.NotNil(t, bet.SettledAt)

	err := l.Resolve("a", BetLoss, nil, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	bet, _ = l.Get("a")
	assert.Equal(t, BetWin, bet.Status, "WIN never flips to LOSS")

	assert.ErrorIs(t, l.Resolve("missing", BetWin, nil, time.Now()), ErrNotFound)
}

func TestLedger_ResolveRejectsPending(t *testing.T) {
	l := NewLedger()
	l.Append(pendingBet("a", Mode30S, "1", NumberSelection(7), 50))

	assert.Error(t, l.Resolve("a", BetPending, nil, time.Now()))
	bet, _ := l.Get("a")
	assert.Equal(t, BetPending, bet.Status)
}

func TestLedger_AppendCopies(t *testing.T) {
	l := NewLedger()
	b := pendingBet("a", Mode30S, "1", NumberSelection(1), 5)
	l.Append(b)
	b.Status = BetWin

	got, _ := l.Get("a")
	assert.Equal(t, BetPending, got.Status)
}

func TestBetSlip_Total(t *testing.T) {
	tests := []struct {
		name string
		slip BetSlip
		want int64
	}{
		{"plain", BetSlip{Amount: decimal.NewFromInt(10)}, 10},
		{"multiplier", BetSlip{Amount: decimal.NewFromInt(10), Multiplier: 5}, 50},
		{"multiplier and quantity", BetSlip{Amount: decimal.NewFromInt(100), Multiplier: 10, Quantity: 3}, 3000},
		{"negative counts as one", BetSlip{Amount: decimal.NewFromInt(1), Multiplier: -2, Quantity: 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.slip.Total().Equal(decimal.NewFromInt(tt.want)), "got %s", tt.slip.Total())
		})
	}
}
