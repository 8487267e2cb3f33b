package game

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"colorpredict/internal/logger"
	"colorpredict/internal/payment"
)

const (
	TICK_INTERVAL    = 1 * time.Second
	BET_CLOSE_WINDOW = 3
	HISTORY_LIMIT    = 50
	DEPOSIT_DELAY    = 4 * time.Second
	WITHDRAW_DELAY   = 30 * time.Second
)

// SeedHistoryCounts is how many past results each mode starts with.
var SeedHistoryCounts = map[Mode]int{
	Mode30S: 20,
	Mode1M:  15,
	Mode3M:  10,
	Mode5M:  10,
}

type SessionConfig struct {
	Durations       Durations
	TickInterval    time.Duration
	CloseWindow     int
	HistoryLimit    int
	SeedHistory     bool
	StartingBalance decimal.Decimal
	MinBet          decimal.Decimal
	MinWithdraw     decimal.Decimal
	DepositDelay    time.Duration
	WithdrawDelay   time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Durations:       DefaultDurations(),
		TickInterval:    TICK_INTERVAL,
		CloseWindow:     BET_CLOSE_WINDOW,
		HistoryLimit:    HISTORY_LIMIT,
		SeedHistory:     true,
		StartingBalance: decimal.NewFromInt(1000),
		MinBet:          decimal.NewFromInt(1),
		MinWithdraw:     decimal.NewFromInt(100),
		DepositDelay:    DEPOSIT_DELAY,
		WithdrawDelay:   WITHDRAW_DELAY,
	}
}

type SessionOption func(*Session)

func WithDigitSource(src DigitSource) SessionOption {
	return func(s *Session) { s.source = src }
}

func WithEventSink(sink EventSink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

type modeRound struct {
	periodID string
	history  []GameResult
}

// Session owns one player's rounds, bets, wallet and transactions. Every
// mutation happens under mu, so a settlement is atomic to readers.
type Session struct {
	playerID string
	cfg      SessionConfig
	source   DigitSource
	sink     EventSink
	now      func() time.Time

	mu            sync.Mutex
	clock         *ModeClock
	rounds        map[Mode]*modeRound
	ledger        *Ledger
	wallet        *Wallet
	txs           *TransactionLog
	activeMode    Mode
	view          View
	authenticated bool
	stopChan      chan struct{}
	pending       map[string]*time.Timer
}

func NewSession(playerID string, cfg SessionConfig, opts ...SessionOption) *Session {
	if cfg.Durations == nil {
		cfg.Durations = DefaultDurations()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = HISTORY_LIMIT
	}

	s := &Session{
		playerID:   playerID,
		cfg:        cfg,
		source:     NewRandomSource(),
		sink:       nopSink{},
		now:        time.Now,
		clock:      NewModeClock(cfg.Durations),
		rounds:     make(map[Mode]*modeRound, len(Modes)),
		ledger:     NewLedger(),
		wallet:     NewWallet(cfg.StartingBalance),
		txs:        NewTransactionLog(),
		activeMode: Mode30S,
		view:       ViewGame,
		pending:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}

	start := s.now()
	for _, m := range Modes {
		round := &modeRound{periodID: InitialPeriodID(m, start)}
		if cfg.SeedHistory {
			round.history = s.seedHistory(m, round.periodID, start)
		}
		s.rounds[m] = round
	}
	return s
}

// InitialPeriodID derives the first period of a mode from the session start
// date, e.g. 202610171001 for 30S.
func InitialPeriodID(m Mode, start time.Time) string {
	return fmt.Sprintf("%s%d%03d", start.Format("20060102"), m.index()+1, 1)
}

func nextPeriodID(id string) string {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		logger.Errorf("[GAME] Non-numeric period id %q: %v", id, err)
		return id + "1"
	}
	return strconv.FormatUint(n+1, 10)
}

func (s *Session) seedHistory(m Mode, currentPeriod string, start time.Time) []GameResult {
	count := SeedHistoryCounts[m]
	if count > s.cfg.HistoryLimit {
		count = s.cfg.HistoryLimit
	}
	base, err := strconv.ParseUint(currentPeriod, 10, 64)
	if err != nil {
		return nil
	}

	step := time.Duration(s.clock.Duration(m)) * time.Second
	history := make([]GameResult, 0, count)
	for i := 0; i < count; i++ {
		o := Draw(s.source)
		history = append(history, GameResult{
			PeriodID:  strconv.FormatUint(base-uint64(i)-1, 10),
			Mode:      m,
			Number:    o.Number,
			Colors:    o.Colors,
			Size:      o.Size,
			CreatedAt: start.Add(-time.Duration(i+1) * step),
		})
	}
	return history
}

func (s *Session) PlayerID() string {
	return s.playerID
}

// Start marks the session authenticated and, unless TickInterval is zero,
// runs the tick loop until ctx is done or Stop is called. With a zero
// interval the caller drives Tick.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = true
	stop := make(chan struct{})
	s.stopChan = stop
	interval := s.cfg.TickInterval
	s.mu.Unlock()

	logger.Infow("[SESSION] Started", "player", s.playerID)
	s.publish(Event{Type: EventSessionStarted})

	if interval > 0 {
		go s.loop(ctx, stop, interval)
	}
}

func (s *Session) loop(ctx context.Context, stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Stop halts the tick loop and drops any deposit or withdrawal completions
// that have not fired yet.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = false
	close(s.stopChan)
	s.stopChan = nil
	dropped := len(s.pending)
	for id, t := range s.pending {
		// nil marks a zero-delay completion about to run inline.
		if t != nil {
			t.Stop()
		}
		delete(s.pending, id)
	}
	s.mu.Unlock()

	logger.Infow("[SESSION] Stopped", "player", s.playerID, "dropped_completions", dropped)
	s.publish(Event{Type: EventSessionStopped})
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Tick advances every mode clock by one step and settles the modes that
// reach zero. It is a no-op while the session is not authenticated.
func (s *Session) Tick() []Settlement {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return nil
	}

	var (
		settlements []Settlement
		events      []Event
	)
	for _, m := range s.clock.Advance() {
		st := s.settleLocked(m)
		settlements = append(settlements, st)

		events = append(events, Event{
			Type: EventRoundResult,
			Mode: m,
			Data: RoundResultMessage{
				Result:      st.Result,
				TotalPayout: st.TotalPayout,
				Matched:     st.Matched,
				Notify:      st.Notify,
			},
		})
		if st.Notify {
			events = append(events, Event{
				Type: EventResultPopup,
				Mode: m,
				Data: RoundResultMessage{
					Result:      st.Result,
					TotalPayout: st.TotalPayout,
					Matched:     st.Matched,
					Notify:      true,
				},
			})
		}
	}
	s.mu.Unlock()

	s.publish(events...)
	return settlements
}

func (s *Session) settleLocked(m Mode) Settlement {
	now := s.now()
	round := s.rounds[m]
	o := Draw(s.source)
	result := GameResult{
		PeriodID:  round.periodID,
		Mode:      m,
		Number:    o.Number,
		Colors:    o.Colors,
		Size:      o.Size,
		CreatedAt: now,
	}

	st := Settle(result, s.ledger.Pending(m, round.periodID), now)
	for _, bet := range st.Resolved {
		if err := s.ledger.Resolve(bet.ID, bet.Status, bet.Payout, now); err != nil {
			logger.Errorf("[SETTLE] Failed to resolve bet %s: %v", bet.ID, err)
		}
	}
	if st.TotalPayout.IsPositive() {
		if _, err := s.wallet.Credit(st.TotalPayout); err != nil {
			logger.Errorf("[SETTLE] Failed to credit payout %s: %v", st.TotalPayout, err)
		}
	}

	round.periodID = nextPeriodID(round.periodID)
	s.clock.Reset(m)
	round.history = append([]GameResult{result}, round.history...)
	if len(round.history) > s.cfg.HistoryLimit {
		round.history = round.history[:s.cfg.HistoryLimit]
	}

	st.Notify = m == s.activeMode && (st.Matched > 0 || st.TotalPayout.IsPositive())

	logger.Debugw("[SETTLE] Round closed",
		"player", s.playerID,
		"mode", m,
		"period", result.PeriodID,
		"number", result.Number,
		"matched", st.Matched,
		"payout", st.TotalPayout.String(),
	)
	return st
}

// PlaceBet stakes amount on sel for the active mode's current period.
func (s *Session) PlaceBet(sel Selection, amount decimal.Decimal) (Bet, error) {
	if err := sel.Validate(); err != nil {
		return Bet{}, err
	}

	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return Bet{}, ErrNotAuthenticated
	}
	if amount.LessThan(s.cfg.MinBet) || !amount.IsPositive() {
		s.mu.Unlock()
		return Bet{}, fmt.Errorf("%w: bet must be at least %s", ErrInvalidAmount, s.cfg.MinBet)
	}

	mode := s.activeMode
	if remaining := s.clock.Remaining(mode); remaining <= s.cfg.CloseWindow {
		s.mu.Unlock()
		return Bet{}, fmt.Errorf("%w: %ds left in %s", ErrBettingClosed, remaining, mode)
	}

	balance, err := s.wallet.Debit(amount)
	if err != nil {
		s.mu.Unlock()
		return Bet{}, err
	}

	bet := Bet{
		ID:        uuid.NewString(),
		PeriodID:  s.rounds[mode].periodID,
		Mode:      mode,
		Amount:    amount,
		Selection: sel,
		PlacedAt:  s.now(),
		Status:    BetPending,
	}
	s.ledger.Append(bet)
	s.mu.Unlock()

	logger.Infow("[BET] Placed", "player", s.playerID, "mode", mode, "period", bet.PeriodID,
		"selection", sel.String(), "amount", amount.String())
	s.publish(Event{
		Type: EventBetPlaced,
		Mode: mode,
		Data: BetPlacedMessage{Bet: bet, Balance: balance},
	})
	return bet, nil
}

// RequestDeposit records a pending deposit and credits it after DepositDelay.
// The reference is self-reported and only checked for shape.
func (s *Session) RequestDeposit(amount decimal.Decimal, reference string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	if err := payment.ValidateReference(reference); err != nil {
		return Transaction{}, err
	}

	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return Transaction{}, ErrNotAuthenticated
	}
	tx := Transaction{
		ID:        uuid.NewString(),
		Kind:      TransactionDeposit,
		Amount:    amount,
		Status:    TransactionPending,
		CreatedAt: s.now(),
		Details:   payment.DepositDetails(reference),
	}
	s.txs.Add(tx)
	balance := s.wallet.Balance()
	immediate := s.scheduleLocked(tx.ID, s.cfg.DepositDelay, s.completeDeposit)
	s.mu.Unlock()

	logger.Infow("[DEPOSIT] Requested", "player", s.playerID, "tx", tx.ID, "amount", amount.String())
	s.publish(Event{
		Type: EventDepositRequested,
		Data: TransactionMessage{Transaction: tx, Balance: balance},
	})
	if immediate {
		s.completeDeposit(tx.ID)
	}
	return tx, nil
}

// RequestWithdraw debits the wallet right away and records a pending
// withdrawal, which completes after WithdrawDelay. A zero delay leaves it
// pending.
func (s *Session) RequestWithdraw(amount decimal.Decimal, details string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return Transaction{}, ErrNotAuthenticated
	}
	if amount.LessThan(s.cfg.MinWithdraw) {
		s.mu.Unlock()
		return Transaction{}, fmt.Errorf("%w: minimum withdrawal is %s", ErrBelowMinimum, s.cfg.MinWithdraw)
	}
	balance, err := s.wallet.Debit(amount)
	if err != nil {
		s.mu.Unlock()
		return Transaction{}, err
	}
	tx := Transaction{
		ID:        uuid.NewString(),
		Kind:      TransactionWithdraw,
		Amount:    amount,
		Status:    TransactionPending,
		CreatedAt: s.now(),
		Details:   details,
	}
	s.txs.Add(tx)
	if s.cfg.WithdrawDelay > 0 {
		s.scheduleLocked(tx.ID, s.cfg.WithdrawDelay, s.completeWithdrawal)
	}
	s.mu.Unlock()

	logger.Infow("[WITHDRAW] Requested", "player", s.playerID, "tx", tx.ID, "amount", amount.String())
	s.publish(Event{
		Type: EventWithdrawalRequested,
		Data: TransactionMessage{Transaction: tx, Balance: balance},
	})
	return tx, nil
}

// scheduleLocked arms a completion for tx id. It reports true when delay is
// not positive and the caller should complete inline after unlocking.
func (s *Session) scheduleLocked(id string, delay time.Duration, complete func(string)) bool {
	if delay <= 0 {
		s.pending[id] = nil
		return true
	}
	s.pending[id] = time.AfterFunc(delay, func() { complete(id) })
	return false
}

// takePendingLocked reports whether id still has an armed completion and
// disarms it. Completions dropped by Stop are gone from the map.
func (s *Session) takePendingLocked(id string) bool {
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

func (s *Session) completeDeposit(id string) {
	s.mu.Lock()
	if !s.takePendingLocked(id) {
		s.mu.Unlock()
		return
	}
	tx, err := s.txs.Complete(id, TransactionSuccess)
	if err != nil {
		s.mu.Unlock()
		logger.Errorf("[DEPOSIT] Failed to complete %s: %v", id, err)
		return
	}
	balance, err := s.wallet.Credit(tx.Amount)
	s.mu.Unlock()
	if err != nil {
		logger.Errorf("[DEPOSIT] Failed to credit %s: %v", id, err)
		return
	}

	logger.Infow("[DEPOSIT] Confirmed", "player", s.playerID, "tx", id, "amount", tx.Amount.String())
	s.publish(Event{
		Type: EventDepositConfirmed,
		Data: TransactionMessage{Transaction: tx, Balance: balance},
	})
}

func (s *Session) completeWithdrawal(id string) {
	s.mu.Lock()
	if !s.takePendingLocked(id) {
		s.mu.Unlock()
		return
	}
	tx, err := s.txs.Complete(id, TransactionSuccess)
	balance := s.wallet.Balance()
	s.mu.Unlock()
	if err != nil {
		logger.Errorf("[WITHDRAW] Failed to complete %s: %v", id, err)
		return
	}

	logger.Infow("[WITHDRAW] Completed", "player", s.playerID, "tx", id, "amount", tx.Amount.String())
	s.publish(Event{
		Type: EventWithdrawalCompleted,
		Data: TransactionMessage{Transaction: tx, Balance: balance},
	})
}

func (s *Session) SwitchMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	s.mu.Lock()
	s.activeMode = m
	s.mu.Unlock()
	return nil
}

func (s *Session) SwitchView(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

func (s *Session) ActiveMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeMode
}

func (s *Session) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet.Balance()
}

func (s *Session) ModeState(m Mode) (ModeState, error) {
	if _, err := ParseMode(string(m)); err != nil {
		return ModeState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modeStateLocked(m), nil
}

func (s *Session) modeStateLocked(m Mode) ModeState {
	round := s.rounds[m]
	history := make([]GameResult, len(round.history))
	copy(history, round.history)
	return ModeState{
		Mode:     m,
		PeriodID: round.periodID,
		TimeLeft: s.clock.Remaining(m),
		Duration: s.clock.Duration(m),
		History:  history,
	}
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	modes := make(map[Mode]ModeState, len(Modes))
	for _, m := range Modes {
		modes[m] = s.modeStateLocked(m)
	}
	return SessionSnapshot{
		PlayerID:      s.playerID,
		Authenticated: s.authenticated,
		Balance:       s.wallet.Balance(),
		ActiveMode:    s.activeMode,
		View:          s.view,
		Modes:         modes,
	}
}

func (s *Session) Bets(f BetFilter) []Bet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Filter(f)
}

func (s *Session) Transactions(kind TransactionKind) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.Filter(kind)
}

func (s *Session) publish(events ...Event) {
	now := s.now()
	for _, e := range events {
		e.PlayerID = s.playerID
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		s.sink.Publish(e)
	}
}
