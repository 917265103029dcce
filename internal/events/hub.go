// Package events fans session events out to server-sent event and
// websocket streams. Each session has its own hub; the manager creates
// hubs on first subscription and tears them down when the session ends.
package events

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/partygames/internal/model"
)

// Hub manages SSE clients for a single session
type Hub struct {
	sessionID model.SessionID
	clients   map[*Client]bool
	mu        sync.RWMutex
	logger    *slog.Logger

	// last time a client joined or the final client left
	lastActive time.Time

	register   chan *Client
	unregister chan *Client
	broadcast  chan model.Event
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a session
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID:  sessionID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("session_id", string(sessionID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.Event, 256),
		done:       make(chan struct{}),
		lastActive: time.Now(),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered", slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				if clientCount == 0 {
					h.lastActive = time.Now()
				}
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case event := <-h.broadcast:
			encoded := make(map[Format][]byte, 2)
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				message, ok := encoded[client.format]
				if !ok {
					var err error
					if message, err = encode(event, client.format); err != nil {
						h.logger.Error("encoding event", slog.String("error", err.Error()))
						break
					}
					encoded[client.format] = message
				}
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("sse messages dropped - client buffer full", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. It returns false if the hub has closed.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()

	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish sends a session event to all clients in their own wire format
func (h *Hub) Publish(event model.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IdleFor reports how long the hub has had no clients, or zero while any
// client is connected.
func (h *Hub) IdleFor(now time.Time) time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) > 0 {
		return 0
	}
	return now.Sub(h.lastActive)
}

// encode renders an event for one wire format. Websocket clients get the
// bare JSON document as a text frame.
func encode(event model.Event, format Format) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return data, nil
	}
	return formatMessage(string(event.Type), string(data)), nil
}

// formatMessage formats an SSE message with event name and data.
// Each data line gets its own "data: " prefix.
func formatMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Manager owns the hubs for all sessions
type Manager struct {
	hubs   map[model.SessionID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a new Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		hubs:   make(map[model.SessionID]*Hub),
		logger: logger.With(slog.String("component", "events")),
	}
}

// Hub returns the hub for a session, creating one if it doesn't exist
func (m *Manager) Hub(id model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		return hub
	}
	hub := NewHub(id, m.logger)
	m.hubs[id] = hub
	go hub.Run()
	return hub
}

// Publish delivers an event to the session's subscribers, if it has any
func (m *Manager) Publish(event model.Event) {
	m.mu.RLock()
	hub, ok := m.hubs[event.SessionID]
	m.mu.RUnlock()
	if ok {
		hub.Publish(event)
	}
}

// Remove closes a session's hub
func (m *Manager) Remove(id model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		hub.Close()
		delete(m.hubs, id)
		m.logger.Info("sse hub removed", slog.String("session_id", string(id)))
	}
}

// CleanupIdle removes hubs that have had no clients for at least maxIdle.
// Hubs of abandoned or expired sessions are otherwise kept until shutdown.
func (m *Manager) CleanupIdle(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 && hub.IdleFor(now) >= maxIdle {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("sse idle hubs cleaned up", slog.Int("removed", removed))
	}
}

// Close shuts every hub down
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}
