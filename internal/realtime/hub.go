package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Client is a single live connection of a user.
// The network side is owned by the websocket handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event types pushed to clients.
const (
	EventTaskCreated         = "task_created"
	EventTaskUpdated         = "task_updated"
	EventTaskDeleted         = "task_deleted"
	EventProgressInvalidated = "progress_invalidated"
)

// Event is the JSON envelope sent over the socket.
type Event struct {
	Type    string   `json:"type"`
	UserID  string   `json:"userId"`
	TaskID  string   `json:"taskId,omitempty"`
	Dates   []string `json:"dates,omitempty"`
	Version int      `json:"version"`
}

// Hub maintains active user connections and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients: make(map[string]map[Client]struct{}),
		log:     log,
	}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client; a user with no clients left is dropped from the map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Connections reports how many clients a user has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends a raw message to all clients of a user.
// Failed sends are left for the owning handler to clean up.
func (h *Hub) Broadcast(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		if !c.Send(message) {
			h.log.Debug("websocket send failed", "user_id", userID)
		}
	}
}

// Publish encodes evt and broadcasts it to evt.UserID.
func (h *Hub) Publish(evt Event) {
	if evt.Version == 0 {
		evt.Version = 1
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.Error("encode event", "type", evt.Type, "error", err)
		return
	}
	h.Broadcast(evt.UserID, msg)
}

// ProgressInvalidated lets the hub act as the progress engine's notifier.
func (h *Hub) ProgressInvalidated(userID string, dates []string) {
	h.Publish(Event{Type: EventProgressInvalidated, UserID: userID, Dates: dates})
}
