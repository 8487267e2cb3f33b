package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"colorpredict/internal/config"
	"colorpredict/internal/game"
)

type simulateOptions struct {
	seed    string
	player  string
	mode    string
	seconds int
	bets    []string
}

func newSimulateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play one offline session with a reproducible outcome stream",
		Example: `  colorpredict simulate --seed demo --mode 30S --bet RED:10 --bet 7:5 --seconds 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sessionCfg, err := cfg.SessionConfig()
			if err != nil {
				return err
			}
			return runSimulation(cmd.OutOrStdout(), sessionCfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.seed, "seed", "colorpredict", "seed for the outcome stream")
	cmd.Flags().StringVar(&opts.player, "player", "simulator", "player identifier")
	cmd.Flags().StringVar(&opts.mode, "mode", string(game.Mode30S), "mode the bets are placed on")
	cmd.Flags().IntVar(&opts.seconds, "seconds", 60, "number of one-second ticks to run")
	cmd.Flags().StringArrayVar(&opts.bets, "bet", nil, "SELECTION:AMOUNT, e.g. RED:10, BIG:5 or 7:2 (repeatable)")
	return cmd
}

type plannedBet struct {
	selection game.Selection
	amount    decimal.Decimal
}

func parseBetFlag(raw string) (plannedBet, error) {
	sel, amt, ok := strings.Cut(raw, ":")
	if !ok {
		return plannedBet{}, fmt.Errorf("bet %q must look like SELECTION:AMOUNT", raw)
	}
	selection, err := game.ParseSelection(sel)
	if err != nil {
		return plannedBet{}, err
	}
	amount, err := decimal.NewFromString(amt)
	if err != nil {
		return plannedBet{}, fmt.Errorf("bet %q: %w", raw, game.ErrInvalidAmount)
	}
	return plannedBet{selection: selection, amount: amount}, nil
}

// runSimulation drives a session by hand: bets go in on the first tick of
// each period and the clock is advanced without sleeping.
func runSimulation(out io.Writer, cfg game.SessionConfig, opts simulateOptions) error {
	mode, err := game.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	planned := make([]plannedBet, 0, len(opts.bets))
	for _, raw := range opts.bets {
		b, err := parseBetFlag(raw)
		if err != nil {
			return err
		}
		planned = append(planned, b)
	}

	cfg.TickInterval = 0

	now := time.Now()
	session := game.NewSession(opts.player, cfg,
		game.WithDigitSource(game.NewHashSource(opts.seed, opts.player)),
		game.WithClock(func() time.Time { return now }),
	)
	session.Start(context.Background())
	defer session.Stop()

	if err := session.SwitchMode(mode); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tPERIOD\tNUMBER\tCOLORS\tSIZE\tMATCHED\tPAYOUT\tBALANCE")

	placeBets := func() {
		for _, b := range planned {
			if _, err := session.PlaceBet(b.selection, b.amount); err != nil {
				fmt.Fprintf(w, "%s\t-\tbet %s rejected: %v\n", mode, b.selection, err)
			}
		}
	}

	placeBets()
	for i := 0; i < opts.seconds; i++ {
		now = now.Add(time.Second)
		for _, st := range session.Tick() {
			colors := make([]string, len(st.Result.Colors))
			for j, c := range st.Result.Colors {
				colors[j] = string(c)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%s\t%s\n",
				st.Result.Mode, st.Result.PeriodID, st.Result.Number,
				strings.Join(colors, "+"), st.Result.Size,
				st.Matched, st.TotalPayout.StringFixed(2), session.Balance().StringFixed(2))
			if st.Result.Mode == mode && i < opts.seconds-1 {
				placeBets()
			}
		}
	}

	won := session.Bets(game.BetFilter{Status: game.BetWin})
	lost := session.Bets(game.BetFilter{Status: game.BetLoss})
	pending := session.Bets(game.BetFilter{Status: game.BetPending})
	fmt.Fprintf(w, "\nwon %d, lost %d, pending %d, final balance %s\n",
		len(won), len(lost), len(pending), session.Balance().StringFixed(2))
	return w.Flush()
}
