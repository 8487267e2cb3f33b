package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"colorpredict/internal/game"
	"colorpredict/internal/logger"
)

// publisher is the slice of *nats.Conn the emitter needs.
type publisher interface {
	Publish(subject string, data []byte) error
}

// Emitter forwards session events to NATS on <prefix>.<event type>.
type Emitter struct {
	conn          publisher
	nc            *nats.Conn
	subjectPrefix string
}

func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	opts := []nats.Option{
		nats.Name("colorpredict"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warnf("[NATS] Disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Infof("[NATS] Connection closed")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Errorf("[NATS] Async error: %v", err)
		}),
	}
	return nats.Connect(url, opts...)
}

func NewEmitter(natsURL, subjectPrefix string) (*Emitter, error) {
	conn, err := Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	e := newEmitter(conn, subjectPrefix)
	e.nc = conn
	return e, nil
}

func newEmitter(conn publisher, subjectPrefix string) *Emitter {
	if subjectPrefix == "" {
		subjectPrefix = "colorpredict"
	}
	return &Emitter{
		conn:          conn,
		subjectPrefix: strings.TrimSuffix(subjectPrefix, "."),
	}
}

func (e *Emitter) Subject(t game.EventType) string {
	return e.subjectPrefix + "." + string(t)
}

func (e *Emitter) Emit(event game.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.conn.Publish(e.Subject(event.Type), data)
}

// Publish implements game.EventSink. nats.Conn buffers writes, so this does
// not block the tick loop; failures are only logged.
func (e *Emitter) Publish(event game.Event) {
	if err := e.Emit(event); err != nil {
		logger.Errorf("[NATS] Failed to emit %s for %s: %v", event.Type, event.PlayerID, err)
	}
}

func (e *Emitter) Close() {
	if e.nc != nil {
		e.nc.Close()
	}
}
