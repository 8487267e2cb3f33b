package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	Mode30S Mode = "30S"
	Mode1M  Mode = "1M"
	Mode3M  Mode = "3M"
	Mode5M  Mode = "5M"
)

// Modes lists every mode in tick order.
var Modes = []Mode{Mode30S, Mode1M, Mode3M, Mode5M}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) index() int {
	for i, known := range Modes {
		if m == known {
			return i
		}
	}
	return -1
}

// Durations maps each mode to its round length in seconds.
type Durations map[Mode]int

func DefaultDurations() Durations {
	return Durations{
		Mode30S: 30,
		Mode1M:  60,
		Mode3M:  180,
		Mode5M:  300,
	}
}

func (d Durations) Validate() error {
	for _, m := range Modes {
		secs, ok := d[m]
		if !ok {
			return fmt.Errorf("missing duration for mode %s", m)
		}
		if secs <= 0 {
			return fmt.Errorf("duration for mode %s must be positive, got %d", m, secs)
		}
	}
	return nil
}

type Color string

const (
	ColorRed    Color = "RED"
	ColorGreen  Color = "GREEN"
	ColorViolet Color = "VIOLET"
)

type Size string

const (
	SizeBig   Size = "BIG"
	SizeSmall Size = "SMALL"
)

type SelectionKind string

const (
	SelectionNumber SelectionKind = "NUMBER"
	SelectionColor  SelectionKind = "COLOR"
	SelectionSize   SelectionKind = "SIZE"
)

// Selection is what a bet is placed on. Exactly one of Number, Color or Size
// is meaningful, as told by Kind.
type Selection struct {
	Kind   SelectionKind
	Number int
	Color  Color
	Size   Size
}

func NumberSelection(n int) Selection { return Selection{Kind: SelectionNumber, Number: n} }
func ColorSelection(c Color) Selection { return Selection{Kind: SelectionColor, Color: c} }
func SizeSelection(s Size) Selection { return Selection{Kind: SelectionSize, Size: s} }

// ParseSelection accepts a digit ("7"), a color ("red") or a size ("BIG").
func ParseSelection(raw string) (Selection, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case string(ColorRed), string(ColorGreen), string(ColorViolet):
		return ColorSelection(Color(v)), nil
	case string(SizeBig), string(SizeSmall):
		return SizeSelection(Size(v)), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}
	sel := NumberSelection(n)
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

func (s Selection) Validate() error {
	switch s.Kind {
	case SelectionNumber:
		if s.Number < 0 || s.Number > 9 {
			return fmt.Errorf("%w: number %d out of range", ErrInvalidSelection, s.Number)
		}
	case SelectionColor:
		if s.Color != ColorRed && s.Color != ColorGreen && s.Color != ColorViolet {
			return fmt.Errorf("%w: color %q", ErrInvalidSelection, s.Color)
		}
	case SelectionSize:
		if s.Size != SizeBig && s.Size != SizeSmall {
			return fmt.Errorf("%w: size %q", ErrInvalidSelection, s.Size)
		}
	default:
		return fmt.Errorf("%w: empty selection", ErrInvalidSelection)
	}
	return nil
}

func (s Selection) String() string {
	switch s.Kind {
	case SelectionNumber:
		return strconv.Itoa(s.Number)
	case SelectionColor:
		return string(s.Color)
	case SelectionSize:
		return string(s.Size)
	}
	return ""
}

// MarshalJSON writes the bare value: 7, "RED" or "BIG".
func (s Selection) MarshalJSON() ([]byte, error) {
	if s.Kind == SelectionNumber {
		return json.Marshal(s.Number)
	}
	return json.Marshal(s.String())
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: null", ErrInvalidSelection)
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		sel, err := ParseSelection(raw)
		if err != nil {
			return err
		}
		*s = sel
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSelection, string(data))
	}
	sel := NumberSelection(n)
	if err := sel.Validate(); err != nil {
		return err
	}
	*s = sel
	return nil
}

type BetStatus string

const (
	BetPending BetStatus = "PENDING"
	BetWin     BetStatus = "WIN"
	BetLoss    BetStatus = "LOSS"
)

func ParseBetStatus(s string) (BetStatus, error) {
	switch st := BetStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BetPending, BetWin, BetLoss:
		return st, nil
	}
	return "", fmt.Errorf("unknown bet status %q", s)
}

// GameResult is the immutable record of one concluded round.
type GameResult struct {
	PeriodID  string    `json:"period_id"`
	Mode      Mode      `json:"mode"`
	Number    int       `json:"number"`
	Colors    []Color   `json:"colors"`
	Size      Size      `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func (r GameResult) Outcome() Outcome {
	return Outcome{Number: r.Number, Colors: r.Colors, Size: r.Size}
}

type Bet struct {
	ID        string           `json:"id"`
	PeriodID  string           `json:"period_id"`
	Mode      Mode             `json:"mode"`
	Amount    decimal.Decimal  `json:"amount"`
	Selection Selection        `json:"selection"`
	PlacedAt  time.Time        `json:"placed_at"`
	Status    BetStatus        `json:"status"`
	Payout    *decimal.Decimal `json:"payout,omitempty"`
	SettledAt *time.Time       `json:"settled_at,omitempty"`
}

// ModeState is a read-only view of one mode's round clock and history.
type ModeState struct {
	Mode     Mode         `json:"mode"`
	PeriodID string       `json:"period_id"`
	TimeLeft int          `json:"time_left"`
	Duration int          `json:"duration"`
	History  []GameResult `json:"history"`
}

type TransactionKind string

const (
	TransactionDeposit  TransactionKind = "DEPOSIT"
	TransactionWithdraw TransactionKind = "WITHDRAW"
)

func ParseTransactionKind(s string) (TransactionKind, error) {
	switch k := TransactionKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case TransactionDeposit, TransactionWithdraw:
		return k, nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

type Transaction struct {
	ID        string            `json:"id"`
	Kind      TransactionKind   `json:"kind"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Details   string            `json:"details"`
}

// View is the screen the player currently has in focus.
type View string

const (
	ViewGame      View = "GAME"
	ViewDeposit   View = "DEPOSIT"
	ViewWithdraw  View = "WITHDRAW"
	ViewPromotion View = "PROMOTION"
	ViewAccount   View = "ACCOUNT"
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToUpper(strings.TrimSpace(s))); v {
	case ViewGame, ViewDeposit, ViewWithdraw, ViewPromotion, ViewAccount:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

type SessionSnapshot struct {
	PlayerID      string             `json:"player_id"`
	Authenticated bool               `json:"authenticated"`
	Balance       decimal.Decimal    `json:"balance"`
	ActiveMode    Mode               `json:"active_mode"`
	View          View               `json:"view"`
	Modes         map[Mode]ModeState `json:"modes"`
}

type RoundResultMessage struct {
	Result      GameResult      `json:"result"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	Matched     int             `json:"matched"`
	Notify      bool            `json:"notify"`
}

type BetPlacedMessage struct {
	Bet     Bet             `json:"bet"`
	Balance decimal.Decimal `json:"balance"`
}

type TransactionMessage struct {
	Transaction Transaction     `json:"transaction"`
	Balance     decimal.Decimal `json:"balance"`
}
