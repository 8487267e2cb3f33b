package game

import (
	"time"
)

type EventType string

const (
	EventSessionStarted      EventType = "session_started"
	EventSessionStopped      EventType = "session_stopped"
	EventBetPlaced           EventType = "bet_placed"
	EventRoundResult         EventType = "round_result"
	EventResultPopup         EventType = "result_popup"
	EventDepositRequested    EventType = "deposit_requested"
	EventDepositConfirmed    EventType = "deposit_confirmed"
	EventWithdrawalRequested EventType = "withdrawal_requested"
	EventWithdrawalCompleted EventType = "withdrawal_completed"

	// Websocket-only messages, never published through a sink.
	EventInitialState   EventType = "initial_state"
	EventModeSwitched   EventType = "mode_switched"
	EventPong           EventType = "pong"
	EventError          EventType = "error"
	EventServerShutdown EventType = "server_shutdown"
)

type Event struct {
	Type      EventType   `json:"type"`
	PlayerID  string      `json:"player_id"`
	Mode      Mode        `json:"mode,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventSink receives session events. Publish must not block for long; it is
// called from the tick loop.
type EventSink interface {
	Publish(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// MultiSink fans an event out to every non-nil sink in order.
type MultiSink []EventSink

func (m MultiSink) Publish(e Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(e)
		}
	}
}

// ChannelSink delivers events on C and drops them when C is full.
type ChannelSink struct {
	C chan Event
}

func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{C: make(chan Event, size)}
}

func (c *ChannelSink) Publish(e Event) {
	select {
	case c.C <- e:
	default:
	}
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
