// Package live pushes restaurant events to connected staff dashboards over
// websockets.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/dineflow/utils"
)

// Event types
const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
	EventFeedbackCreated    = "feedback_created"
	EventFeedbackReplied    = "feedback_replied"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events may queue for one client before it is
	// considered stalled and dropped.
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// writePump is the only writer for the connection. It closes the
// connection once send is closed or a write fails.
func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("Live client write failed (role=%s): %v", c.role, err)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(time.Second))
}

// Hub holds the connected clients keyed by connection.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, role string) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	go c.writePump()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = c
	utils.InfoLogger.Printf("Live client connected (role=%s), %d connected", role, len(h.clients))
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.remove(c)
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues the event for every client and never waits on a socket.
// Delivery is best effort: a client whose queue is full is dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			utils.ErrorLogger.Printf("Dropping stalled live client (role=%s)", c.role)
			h.remove(c)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, c := range h.clients {
		h.remove(c)
	}
}
