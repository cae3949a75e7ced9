package observers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/orbitcex/itchbook/internal/book"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// client is a single connected dashboard subscriber.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// WebSocketHub fans book-changed messages out to every connected client. It
// never blocks the mutation path: a client whose send buffer is full is
// disconnected rather than allowed to back-pressure the book.
type WebSocketHub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewWebSocketHub(log *zap.Logger) *WebSocketHub {
	return &WebSocketHub{log: log, clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the request to a WebSocket and registers the
// connection as a subscriber until it disconnects.
func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 256)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
}

func (h *WebSocketHub) writeLoop(c *client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *WebSocketHub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("dropping slow websocket client")
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// WebSocketObserver publishes every level transition to WebSocketHub,
// which fans it out to connected dashboard clients.
type WebSocketObserver struct {
	book.NullObserver
	hub *WebSocketHub
}

func NewWebSocketObserver(hub *WebSocketHub) *WebSocketObserver {
	return &WebSocketObserver{hub: hub}
}

func (o *WebSocketObserver) emit(u LevelUpdate) {
	b, err := json.Marshal(u)
	if err != nil {
		return
	}
	o.hub.broadcast(b)
}

func (o *WebSocketObserver) OnAddLevel(b *book.Book, lv *book.Level, top bool) {
	o.emit(buildLevelUpdate(b, lv, "ADD", top))
}

func (o *WebSocketObserver) OnUpdateLevel(b *book.Book, lv *book.Level, top bool) {
	o.emit(buildLevelUpdate(b, lv, "UPDATE", top))
}

func (o *WebSocketObserver) OnDeleteLevel(b *book.Book, lv *book.Level, top bool) {
	o.emit(buildLevelUpdate(b, lv, "DELETE", top))
}
