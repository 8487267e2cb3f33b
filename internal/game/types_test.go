package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"30S", Mode30S, false},
		{"1m", Mode1M, false},
		{" 3M ", Mode3M, false},
		{"5M", Mode5M, false},
		{"2M", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in      string
		want    Selection
		wantErr bool
	}{
		{"7", NumberSelection(7), false},
		{"0", NumberSelection(0), false},
		{"red", ColorSelection(ColorRed), false},
		{"VIOLET", ColorSelection(ColorViolet), false},
		{"big", SizeSelection(SizeBig), false},
		{"SMALL", SizeSelection(SizeSmall), false},
		{"10", Selection{}, true},
		{"-1", Selection{}, true},
		{"blue", Selection{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelection_Validate(t *testing.T) {
	assert.ErrorIs(t, Selection{}.Validate(), ErrInvalidSelection)
	assert.ErrorIs(t, Selection{Kind: SelectionColor, Color: "BLUE"}.Validate(), ErrInvalidSelection)
	assert.ErrorIs(t, Selection{Kind: SelectionSize, Size: "HUGE"}.Validate(), ErrInvalidSelection)
	assert.NoError(t, NumberSelection(9).Validate())
}

func TestSelection_JSON(t *testing.T) {
	data, err := json.Marshal([]Selection{NumberSelection(7), ColorSelection(ColorRed), SizeSelection(SizeBig)})
	require.NoError(t, err)
	assert.JSONEq(t, `[7,"RED","BIG"]`, string(data))

	var sels []Selection
	require.NoError(t, json.Unmarshal([]byte(`[0, "violet", "small"]`), &sels))
	assert.Equal(t, []Selection{NumberSelection(0), ColorSelection(ColorViolet), SizeSelection(SizeSmall)}, sels)

	var sel Selection
	assert.ErrorIs(t, json.Unmarshal([]byte(`12`), &sel), ErrInvalidSelection)
	assert.Error(t, json.Unmarshal([]byte(`"purple"`), &sel))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"NUMBER"}`), &sel))
}

func TestSelection_JSONNullIsNotZero(t *testing.T) {
	var sel Selection
	assert.ErrorIs(t, json.Unmarshal([]byte(`null`), &sel), ErrInvalidSelection)

	var msg struct {
		Selection Selection `json:"selection"`
	}
	err := json.Unmarshal([]byte(`{"selection":null}`), &msg)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Error(t, msg.Selection.Validate(), "no number 0 wager appears out of null")
}

func TestParseEnums(t *testing.T) {
	st, err := ParseBetStatus("win")
	require.NoError(t, err)
	assert.Equal(t, BetWin, st)
	_, err = ParseBetStatus("void")
	assert.Error(t, err)

	k, err := ParseTransactionKind("withdraw")
	require.NoError(t, err)
	assert.Equal(t, TransactionWithdraw, k)
	_, err = ParseTransactionKind("refund")
	assert.Error(t, err)

	v, err := ParseView("promotion")
	require.NoError(t, err)
	assert.Equal(t, ViewPromotion, v)
	_, err = ParseView("settings")
	assert.Error(t, err)
}
