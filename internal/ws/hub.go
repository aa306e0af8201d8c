package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event mirrors a committed session_events row. EventID lets a client
// that drops the connection replay the durable log from where it
// stopped.
type Event struct {
	EventID   uint        `json:"event_id"`
	SessionID uint        `json:"session_id"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
}

// sendBuffer bounds how far a client may fall behind before it is
// dropped; the durable log lets it catch up after reconnecting.
const sendBuffer = 32

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump is the only writer on the connection. It exits when the
// send channel is closed or a write fails.
func (c *client) writePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

type Hub struct {
	mu       sync.RWMutex
	sessions map[uint]map[*websocket.Conn]*client
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[uint]map[*websocket.Conn]*client),
		log:      log,
	}
}

func (h *Hub) AddConnection(sessionID uint, conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	go cl.writePump()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*websocket.Conn]*client)
	}
	h.sessions[sessionID][conn] = cl
	h.log.Debug("ws client connected",
		zap.Uint("session_id", sessionID),
		zap.Int("total", len(h.sessions[sessionID])))
}

func (h *Hub) RemoveConnection(sessionID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sessionID, conn)
}

// removeLocked closes the client exactly once; callers hold the write
// lock, so no send can race the channel close.
func (h *Hub) removeLocked(sessionID uint, conn *websocket.Conn) {
	conns, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	cl, ok := conns[conn]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.sessions, sessionID)
	}
	close(cl.send)
	h.log.Debug("ws client disconnected", zap.Uint("session_id", sessionID))
}

// Broadcast queues the event for every subscriber of the session. The
// read lock is held only to hand the bytes to each client's buffer, so
// a slow connection never stalls the fan-out; a client whose buffer is
// full is dropped and catches up via the event log.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws marshal failed", zap.Error(err))
		return
	}

	var stalled []*websocket.Conn
	h.mu.RLock()
	for conn, cl := range h.sessions[event.SessionID] {
		select {
		case cl.send <- data:
		default:
			stalled = append(stalled, conn)
		}
	}
	h.mu.RUnlock()

	if len(stalled) == 0 {
		return
	}

	h.mu.Lock()
	for _, conn := range stalled {
		h.log.Warn("ws client too slow, dropping connection",
			zap.Uint("session_id", event.SessionID))
		h.removeLocked(event.SessionID, conn)
	}
	h.mu.Unlock()
}
