package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Hub keeps the set of live connections per user and routes events to them.
// A user may hold several connections (two devices, reconnect races); events
// addressed to a user go to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // userID -> connections
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a client connection for its user.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[client.UserID] = conns
	}
	conns[client] = struct{}{}
	log.Printf("[WebSocketHub] client registered user=%s connections=%d", client.UserID, len(conns))
}

// Unregister removes a client connection and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	log.Printf("[WebSocketHub] client unregistered user=%s", client.UserID)
}

// SendToUser delivers a raw message to every connection of the user.
// Returns true when at least one connection accepted it.
func (h *Hub) SendToUser(userID string, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.clients[userID]
	if !ok || len(conns) == 0 {
		return false
	}

	sent := false
	for client := range conns {
		select {
		case client.send <- message:
			sent = true
		default:
			// Slow consumer: drop the message rather than block the caller.
			log.Printf("[WebSocketHub] send buffer full, dropping message for user=%s", userID)
		}
	}
	return sent
}

// SendJSONToUser serializes the value and delivers it to the user.
func (h *Hub) SendJSONToUser(userID string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal websocket message: %w", err)
	}
	h.SendToUser(userID, data)
	return nil
}

// ConnectedUsers returns the number of distinct users with live connections.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notifier is the narrow interface services use to push events to users.
type Notifier interface {
	NotifyUser(userID string, eventType string, data interface{})
}

// NotifyUser pushes an event to the user, best effort. Delivery failures are
// logged and swallowed: push is a latency optimization over polling, never a
// correctness requirement.
func (h *Hub) NotifyUser(userID string, eventType string, data interface{}) {
	if err := h.SendJSONToUser(userID, Event{Type: eventType, Data: data}); err != nil {
		log.Printf("[WebSocketHub] notify user=%s type=%s failed: %v", userID, eventType, err)
	}
}
