package websocket

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/engine"
)

// Hub fans session events out to websocket subscribers. It implements
// engine.Listener so a single hub can be registered on every session; frames
// are routed by session id to that session's subscribers only.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}
	log         zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]struct{}),
		log:         log.With().Str("component", "ws_hub").Logger(),
	}
}

// HandleEvent implements engine.Listener. Slow subscribers are disconnected
// rather than allowed to block event delivery.
func (h *Hub) HandleEvent(ev engine.Event) {
	frame := frameFromEvent(ev)

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.subscribers[ev.SessionID]))
	for c := range h.subscribers[ev.SessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn().
				Str("session_id", ev.SessionID).
				Msg("Subscriber send buffer full, dropping client")
			h.Unsubscribe(c)
			c.Close()
		}
	}
}

// Subscribe registers a client for a session's event stream.
func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[c.sessionID] == nil {
		h.subscribers[c.sessionID] = make(map[*Client]struct{})
	}
	h.subscribers[c.sessionID][c] = struct{}{}
}

// Unsubscribe removes a client. Safe to call multiple times.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[c.sessionID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.subscribers, c.sessionID)
	}
}

// SubscriberCount reports how many clients are watching a session.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[sessionID])
}
