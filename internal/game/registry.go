package game

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"colorpredict/internal/logger"
)

// Registry holds one Session per authenticated player. Logout stops and
// forgets the session; the next Authenticate starts a fresh one.
type Registry struct {
	cfg      SessionConfig
	sink     EventSink
	opts     []SessionOption
	ctx      context.Context
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewRegistry(ctx context.Context, cfg SessionConfig, sink EventSink, opts ...SessionOption) *Registry {
	if sink == nil {
		sink = nopSink{}
	}
	return &Registry{
		cfg:      cfg,
		sink:     sink,
		opts:     opts,
		ctx:      ctx,
		sessions: make(map[string]*Session),
	}
}

// Authenticate accepts any non-empty identifier and returns the player's
// running session, creating and starting one if needed.
func (r *Registry) Authenticate(identifier string) (*Session, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return nil, fmt.Errorf("%w: identifier is required", ErrNotAuthenticated)
	}

	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		opts := append([]SessionOption{WithEventSink(r.sink)}, r.opts...)
		s = NewSession(id, r.cfg, opts...)
		r.sessions[id] = s
		logger.Infof("[REGISTRY] Created session for %s (Total: %d)", id, len(r.sessions))
	}
	r.mu.Unlock()

	s.Start(r.ctx)
	return s, nil
}

func (r *Registry) Get(playerID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return s, nil
}

// Logout stops the player's session and forgets it. Balance, bets and
// history are not kept across logins.
func (r *Registry) Logout(playerID string) error {
	r.mu.Lock()
	s, ok := r.sessions[playerID]
	delete(r.sessions, playerID)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}

	s.Stop()
	logger.Infof("[REGISTRY] Logged out %s", playerID)
	return nil
}

func (r *Registry) StopAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
	logger.Infof("[REGISTRY] Stopped %d sessions", len(sessions))
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
