package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// WSClient is one websocket subscription, scoped to a Telegram user id.
// UserID 0 subscribes to every user's alerts (operator view).
type WSClient struct {
	UserID int64
	Conn   *websocket.Conn

	// Guards Conn writes: the connection takes one writer at a time, and
	// broadcasts race the keepalive pinger.
	writeMu sync.Mutex
}

// Send writes one message to the client, serialized against any other
// writer on the same connection.
func (c *WSClient) Send(messageType int, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, payload)
}

// RealtimeHub tracks live alert subscribers per user.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[int64]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[int64]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Broadcast delivers the payload to the user's subscribers and to any
// catch-all (UserID 0) subscribers. Write failures are ignored; a dead
// connection gets cleaned up when its reader loop exits.
func (h *RealtimeHub) Broadcast(userID int64, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Send(websocket.TextMessage, msg)
	}
	if userID != 0 {
		for c := range h.clients[0] {
			_ = c.Send(websocket.TextMessage, msg)
		}
	}
}
