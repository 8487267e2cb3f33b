package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"colorpredict/internal/game"
)

const NAMESPACE = "colorpredict"

// Metrics counts game activity from the session event stream. Each instance
// owns its registry so tests do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	activeSessions prometheus.Gauge
	betsPlaced     *prometheus.CounterVec
	betsStaked     *prometheus.CounterVec
	rounds         *prometheus.CounterVec
	wagersResolved *prometheus.CounterVec
	payouts        *prometheus.CounterVec
	popups         prometheus.Counter
	transactions   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Sessions whose round clocks are running.",
		}),
		betsPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "bets",
			Name:      "placed_total",
			Help:      "Accepted bets by mode and selection kind.",
		}, []string{"mode", "kind"}),
		betsStaked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "bets",
			Name:      "staked_amount_total",
			Help:      "Sum of accepted stakes by mode.",
		}, []string{"mode"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "rounds",
			Name:      "settled_total",
			Help:      "Settled rounds by mode.",
		}, []string{"mode"}),
		wagersResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "rounds",
			Name:      "resolved_wagers_total",
			Help:      "Wagers settled by mode, won or lost.",
		}, []string{"mode"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "rounds",
			Name:      "payout_amount_total",
			Help:      "Sum of credited payouts by mode.",
		}, []string{"mode"}),
		popups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "rounds",
			Name:      "popups_total",
			Help:      "Result popups raised for the active mode.",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Subsystem: "wallet",
			Name:      "transactions_total",
			Help:      "Deposit and withdrawal transitions by kind and status.",
		}, []string{"kind", "status"}),
	}

	m.Registry.MustRegister(
		m.activeSessions,
		m.betsPlaced,
		m.betsStaked,
		m.rounds,
		m.wagersResolved,
		m.payouts,
		m.popups,
		m.transactions,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Publish implements game.EventSink.
func (m *Metrics) Publish(e game.Event) {
	switch e.Type {
	case game.EventSessionStarted:
		m.activeSessions.Inc()
	case game.EventSessionStopped:
		m.activeSessions.Dec()
	case game.EventBetPlaced:
		if msg, ok := e.Data.(game.BetPlacedMessage); ok {
			mode := string(msg.Bet.Mode)
			m.betsPlaced.WithLabelValues(mode, string(msg.Bet.Selection.Kind)).Inc()
			m.betsStaked.WithLabelValues(mode).Add(msg.Bet.Amount.InexactFloat64())
		}
	case game.EventRoundResult:
		if msg, ok := e.Data.(game.RoundResultMessage); ok {
			mode := string(e.Mode)
			m.rounds.WithLabelValues(mode).Inc()
			m.wagersResolved.WithLabelValues(mode).Add(float64(msg.Matched))
			m.payouts.WithLabelValues(mode).Add(msg.TotalPayout.InexactFloat64())
		}
	case game.EventResultPopup:
		m.popups.Inc()
	case game.EventDepositRequested, game.EventDepositConfirmed,
		game.EventWithdrawalRequested, game.EventWithdrawalCompleted:
		if msg, ok := e.Data.(game.TransactionMessage); ok {
			m.transactions.WithLabelValues(string(msg.Transaction.Kind), string(msg.Transaction.Status)).Inc()
		}
	}
}
