package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/logging"
	"go.uber.org/zap"
)

var _ game.Notifier = (*Hub)(nil)

func NewHub(ctx context.Context) *Hub {
	return &Hub{
		rooms:  map[string]map[*Client]struct{}{},
		users:  map[string]map[*Client]struct{}{},
		logger: logging.FromContext(ctx).Named("ws.hub"),
	}
}

// Hub fans notifications out to the connections of a room or of a single user.
type Hub struct {
	mtx sync.RWMutex
	// key: roomCode
	rooms map[string]map[*Client]struct{}
	// key: userId
	users map[string]map[*Client]struct{}

	logger *zap.SugaredLogger
}

func (h *Hub) Register(c *Client) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.rooms[c.roomCode] == nil {
		h.rooms[c.roomCode] = map[*Client]struct{}{}
	}
	h.rooms[c.roomCode][c] = struct{}{}

	if h.users[c.actor.UserID] == nil {
		h.users[c.actor.UserID] = map[*Client]struct{}{}
	}
	h.users[c.actor.UserID][c] = struct{}{}
}

// Unregister removes the client and reports whether the same user is still connected to the room.
func (h *Hub) Unregister(c *Client) bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if clients, ok := h.rooms[c.roomCode]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.roomCode)
		}
	}

	stillConnected := false
	if clients, ok := h.users[c.actor.UserID]; ok {
		delete(clients, c)
		for other := range clients {
			if other.roomCode == c.roomCode {
				stillConnected = true
			}
		}
		if len(clients) == 0 {
			delete(h.users, c.actor.UserID)
		}
	}

	return stillConnected
}

func (h *Hub) Broadcast(roomCode string, n game.Notification) {
	bytes, err := json.Marshal(n)
	if err != nil {
		h.logger.Errorf("marshal %s notification: %v", n.Event, err)
		return
	}

	h.mtx.RLock()
	defer h.mtx.RUnlock()
	for c := range h.rooms[roomCode] {
		c.deliver(bytes)
	}
}

func (h *Hub) Send(userID string, n game.Notification) {
	bytes, err := json.Marshal(n)
	if err != nil {
		h.logger.Errorf("marshal %s notification: %v", n.Event, err)
		return
	}

	h.mtx.RLock()
	defer h.mtx.RUnlock()
	for c := range h.users[userID] {
		c.deliver(bytes)
	}
}

func (h *Hub) Connections(roomCode string) int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.rooms[roomCode])
}
