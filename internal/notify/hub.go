package notify

import (
	"context"
	"sync"

	"restaurant-pos/internal/common/logging"
)

// Message is one named event with its payload, as delivered to terminals.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub maintains the set of connected terminal clients and broadcasts every
// published event to all of them. Relevance filtering happens client-side.
type Hub struct {
	mu         sync.Mutex
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

var _ Publisher = (*Hub)(nil)

// Publish implements the notification port. A full broadcast buffer drops the
// message rather than blocking a request handler.
func (h *Hub) Publish(event string, payload any) {
	select {
	case h.broadcast <- Message{Event: event, Data: payload}:
	default:
		logging.Warn().Str("event", event).Msg("broadcast buffer full, dropping event")
	}
}

// Run processes client lifecycle and broadcasts until ctx is canceled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			logging.Info().Str("role", string(c.actor.Role)).Int("clients", n).Msg("terminal connected")
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			logging.Info().Int("clients", n).Msg("terminal disconnected")
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

func (h *Hub) send(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer: drop the connection, the terminal re-syncs on reconnect.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	logging.Info().Msg("closed all terminal connections")
}

// ClientCount reports the number of connected terminals.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
