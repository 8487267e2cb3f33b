package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorpredict/internal/game"
)

func TestParseBetFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    game.Selection
		amount  string
		wantErr bool
	}{
		{"RED:10", game.ColorSelection(game.ColorRed), "10", false},
		{"big:2.5", game.SizeSelection(game.SizeBig), "2.5", false},
		{"7:5", game.NumberSelection(7), "5", false},
		{"RED", game.Selection{}, "", true},
		{"PINK:10", game.Selection{}, "", true},
		{"RED:lots", game.Selection{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseBetFlag(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.selection)
			assert.True(t, got.amount.Equal(decimal.RequireFromString(tt.amount)))
		})
	}
}

func runForTest(t *testing.T, opts simulateOptions) string {
	t.Helper()
	cfg := game.DefaultSessionConfig()
	cfg.SeedHistory = false

	var out bytes.Buffer
	require.NoError(t, runSimulation(&out, cfg, opts))
	return out.String()
}

func TestRunSimulation(t *testing.T) {
	opts := simulateOptions{
		seed:    "demo",
		player:  "sim",
		mode:    "30S",
		seconds: 60,
		bets:    []string{"RED:10"},
	}

	output := runForTest(t, opts)
	lines := strings.Split(strings.TrimSpace(output), "\n")

	assert.True(t, strings.HasPrefix(lines[0], "MODE"))
	// 30S settles twice and 1M once in a minute.
	rows := 0
	for _, l := range lines[1:] {
		if strings.HasPrefix(l, "30S") || strings.HasPrefix(l, "1M") {
			rows++
		}
	}
	assert.Equal(t, 3, rows)

	var won, lost, pending int
	var balance string
	summary := lines[len(lines)-1]
	_, err := fmt.Sscanf(summary, "won %d, lost %d, pending %d, final balance %s", &won, &lost, &pending, &balance)
	require.NoError(t, err, summary)
	assert.Equal(t, 2, won+lost)
	assert.Zero(t, pending)

	assert.Equal(t, output, runForTest(t, opts), "same seed replays the same game")
}

func TestRunSimulation_Errors(t *testing.T) {
	cfg := game.DefaultSessionConfig()
	var out bytes.Buffer

	assert.Error(t, runSimulation(&out, cfg, simulateOptions{mode: "2M", seconds: 1}))
	assert.Error(t, runSimulation(&out, cfg, simulateOptions{mode: "30S", seconds: 1, bets: []string{"oops"}}))
}
