// README: WebSocket hub pushing live ride updates to connected viewers.
package tracking

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client owns one connection. Only its writer goroutine writes to ws, which
// satisfies gorilla/websocket's single-writer rule.
type client struct {
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans updates out to every subscriber. Broadcast never blocks: a
// subscriber whose queue is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	last    []byte
	log     *logrus.Entry
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     logger.WithField("component", "ws"),
	}
}

// HandleWS upgrades the connection, replays the latest update and streams
// new ones until the client goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade failed")
		return
	}
	c := &client{ws: ws, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()
	h.log.WithField("remote", r.RemoteAddr).Info("viewer connected")

	go h.writeLoop(c)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
	h.log.WithField("remote", r.RemoteAddr).Info("viewer disconnected")
}

func (h *Hub) writeLoop(c *client) {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.WithError(err).Debug("write failed")
			h.remove(c)
			return
		}
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Broadcast encodes v as JSON and queues it for every subscriber.
func (h *Hub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("encode update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("viewer too slow, dropping")
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}
