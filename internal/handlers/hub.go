package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer   = 64
	writeTimeout = 3 * time.Second
	pingInterval = 15 * time.Second
)

// client is one socket with its own ordered outbound queue.
type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// writePump drains the send queue in order and keeps the connection alive with pings.
func (c *client) writePump(log *logrus.Entry) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				log.WithError(err).WithField("user_id", c.userID).Debug("write failed")
				return
			}
		case <-ping.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// hub fans game events out to the sockets of one game. It has its own lock, so the game can
// call into it while holding the game mutex.
type hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	log     *logrus.Entry
}

func newHub(gameID uuid.UUID, logger *logrus.Logger) *hub {
	return &hub{
		clients: make(map[uuid.UUID]*client),
		log:     logger.WithFields(logrus.Fields{"game_id": gameID, "component": "hub"}),
	}
}

// register installs conn for userID, replacing and closing any earlier socket of the same user.
func (h *hub) register(userID uuid.UUID, conn *websocket.Conn) *client {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = c
	h.mu.Unlock()

	if old != nil {
		old.close()
		old.conn.Close(websocket.StatusPolicyViolation, "replaced by a newer connection")
	}
	go c.writePump(h.log)
	return c
}

// unregister removes c if it is still the user's current socket. It reports whether it was.
func (h *hub) unregister(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.close()
	if h.clients[c.userID] != c {
		return false
	}
	delete(h.clients, c.userID)
	return true
}

func (h *hub) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
		h.log.WithField("user_id", c.userID).Warn("send queue full, dropping message")
	}
}

func (h *hub) broadcast(ev game.GameEvent) {
	data := game.EventToBytes(ev)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.enqueue(c, data)
	}
}

func (h *hub) sendTo(userID uuid.UUID, ev game.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[userID]; ok {
		h.enqueue(c, game.EventToBytes(ev))
	}
}

// sendRaw queues an already-encoded message for one user.
func (h *hub) sendRaw(userID uuid.UUID, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[userID]; ok {
		h.enqueue(c, data)
	}
}

// closeAll ends every socket, used once a finished game is dropped.
func (h *hub) closeAll(reason string) {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
		c.conn.Close(websocket.StatusNormalClosure, reason)
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
