package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"caretrek-backend/internal/monitoring"
	"caretrek-backend/pkg/logger"

	"github.com/gorilla/websocket"
)

// writeWait bounds how long a single stalled socket can hold up a push.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The mobile app connects from a non-browser origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is the envelope pushed to connected clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// client serializes writes to one socket; gorilla allows only a single
// concurrent writer per connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks one websocket set per user id and pushes events to them.
// A user can hold several connections (phone and tablet).
type Hub struct {
	mu    sync.Mutex
	conns map[int]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int]map[*client]bool),
	}
}

// HandleConnection upgrades the request and keeps the socket registered
// until the client disconnects.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}

	c := &client{conn: conn}
	h.register(userID, c)
	defer h.unregister(userID, c)

	// Drain client messages; the hub is push-only
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed unexpectedly", "error", err, "user_id", userID)
			}
			return
		}
	}
}

// Send pushes an event to every connection a user holds. Returns true
// when at least one connection received it. Writes happen outside the
// registry lock so one stalled socket cannot block other pushes.
func (h *Hub) Send(userID int, eventType string, payload interface{}) bool {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		logger.Error("failed to marshal event", "error", err, "type", eventType)
		return false
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	delivered := false
	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.unregister(userID, c)
			continue
		}
		delivered = true
	}

	return delivered
}

// Connected reports whether a user has at least one open socket.
func (h *Hub) Connected(userID int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[userID]) > 0
}

func (h *Hub) register(userID int, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*client]bool)
	}
	h.conns[userID][c] = true
	monitoring.SetWebsocketClients(h.clientCount())
}

func (h *Hub) unregister(userID int, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()
	delete(h.conns[userID], c)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	monitoring.SetWebsocketClients(h.clientCount())
}

// clientCount is called with the mutex held.
func (h *Hub) clientCount() int {
	n := 0
	for _, set := range h.conns {
		n += len(set)
	}
	return n
}
