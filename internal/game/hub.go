package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"colorpredict/internal/logger"
)

const (
	BROADCAST_BUFFER = 100
	WRITE_DEADLINE   = 10 * time.Second
)

type Client struct {
	conn     *websocket.Conn
	playerID string
	mu       sync.Mutex
}

// envelope addresses a message to one player's clients, or to everyone when
// playerID is empty.
type envelope struct {
	playerID string
	message  interface{}
}

// Hub fans session events out to websocket clients. It implements EventSink.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, BROADCAST_BUFFER),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			h.drain()
			h.mu.Lock()
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Infof("[WS] Client connected: %s (Total: %d)", client.playerID, total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
				logger.Infof("[WS] Client disconnected: %s (Total: %d)", client.playerID, len(h.clients))
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			// Broadcasts are written inline so they land before a later Stop
			// closes the connections.
			h.deliver(env, env.playerID == "")
		}
	}
}

func (h *Hub) deliver(env envelope, wait bool) {
	jsonMessage, err := json.Marshal(env.message)
	if err != nil {
		logger.Errorf("[WS] Marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if env.playerID != "" && client.playerID != env.playerID {
			continue
		}
		if wait {
			client.send(jsonMessage)
		} else {
			go client.send(jsonMessage)
		}
	}
}

// drain flushes whatever is still queued when the hub stops.
func (h *Hub) drain() {
	for {
		select {
		case env := <-h.broadcast:
			h.deliver(env, true)
		default:
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Broadcast queues message for every connected client, such as the shutdown
// notice. Queued broadcasts are still written when the hub stops.
func (h *Hub) Broadcast(message interface{}) {
	h.enqueue(envelope{message: message})
}

// Publish routes a session event to that player's clients only.
func (h *Hub) Publish(e Event) {
	h.enqueue(envelope{playerID: e.PlayerID, message: e})
}

func (h *Hub) enqueue(env envelope) {
	select {
	case h.broadcast <- env:
	default:
		logger.Warnf("[WS] Broadcast channel full, dropping message")
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) PlayerClientCount(playerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.playerID == playerID {
			n++
		}
	}
	return n
}

func (c *Client) send(message interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data []byte
	var err error

	switch v := message.(type) {
	case []byte:
		data = v
	default:
		data, err = json.Marshal(v)
		if err != nil {
			logger.Errorf("[WS] Send marshal error: %v", err)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(WRITE_DEADLINE))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logger.Warnf("[WS] Write error for player %s: %v", c.playerID, err)
	}
}

// SendInitialState writes the session snapshot before any live events.
func (c *Client) SendInitialState(snapshot SessionSnapshot) {
	c.send(Event{
		Type:      EventInitialState,
		PlayerID:  snapshot.PlayerID,
		Data:      snapshot,
		Timestamp: time.Now(),
	})
}

// Reply writes a direct response to this client only.
func (c *Client) Reply(eventType EventType, data interface{}) {
	c.send(Event{
		Type:      eventType,
		PlayerID:  c.playerID,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func (h *Hub) RegisterClient(conn *websocket.Conn, playerID string) *Client {
	client := &Client{
		conn:     conn,
		playerID: playerID,
	}
	select {
	case h.register <- client:
	case <-h.stop:
		conn.Close()
	}
	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}
