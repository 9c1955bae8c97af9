package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and delivers events to the clients of a session
type Hub struct {
	// Registered clients organized by session ID
	clients map[string]map[*Client]bool

	// Channel for outbound events
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed by Stop
	done     chan struct{}
	stopOnce sync.Once

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// Message is an event sent over WebSocket
type Message struct {
	// Type of event, e.g. "wizard.state"
	Type string `json:"type"`

	// Session the event belongs to; never sent to the browser
	SessionID string `json:"-"`

	// Event body
	Payload interface{} `json:"payload,omitempty"`

	// Timestamp when the event was published
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger.With().Str("component", "websocket").Logger(),
	}
}

// Run starts the hub, handling client registrations and deliveries until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.deliver(message)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop ends Run and closes every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true

	h.logger.Info().
		Str("sessionID", client.sessionID).
		Str("userID", client.userID).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel. Callers hold mu.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}

	h.logger.Info().
		Str("sessionID", client.sessionID).
		Str("userID", client.userID).
		Msg("Client unregistered")
}

// deliver sends a message to every client of its session. Clients that cannot keep up are dropped.
func (h *Hub) deliver(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[message.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("sessionID", message.SessionID).
			Str("type", message.Type).
			Msg("Failed to marshal message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn().Str("sessionID", client.sessionID).Msg("Dropping slow client")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for the session's clients. It never blocks; events are dropped when the queue is full.
func (h *Hub) Publish(sessionID, eventType string, payload interface{}) {
	message := &Message{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		h.logger.Warn().Str("sessionID", sessionID).Str("type", eventType).Msg("Event queue full, dropping event")
	}
}

// GetClientsCount returns the number of connected clients for a session
func (h *Hub) GetClientsCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[sessionID])
}
