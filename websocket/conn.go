package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"unimarket/contract"
	"unimarket/observability"
	"unimarket/repositories"
	"unimarket/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Message text carries user prose of no fixed length. The read limit
	// exists to cap abuse, not to bound a conversation; it must stay far
	// above anything a person would type into a chat box.
	maxMessageSize = 1 << 20
)

// Conn binds one authenticated user to one live websocket. It is the
// contract.Sink for that user: Deliver pushes serialized envelopes into the
// outbound buffer and never blocks the delivery path.
type Conn struct {
	user     repositories.User
	connID   uuid.UUID
	ws       *websocket.Conn
	send     chan []byte
	registry contract.IRegistry
	chat     services.IChatService
	metrics  *observability.Metrics
	log      *slog.Logger
}

func NewConn(
	user repositories.User,
	ws *websocket.Conn,
	registry contract.IRegistry,
	chat services.IChatService,
	metrics *observability.Metrics,
	log *slog.Logger,
	bufferSize int,
) *Conn {
	return &Conn{
		user:     user,
		connID:   uuid.New(),
		ws:       ws,
		send:     make(chan []byte, bufferSize),
		registry: registry,
		chat:     chat,
		metrics:  metrics,
		log:      log,
	}
}

// Deliver queues one payload for the remote peer. A full buffer means the
// peer is too slow; the payload is counted as dropped and the delivery
// still succeeds from the caller's point of view.
func (c *Conn) Deliver(_ context.Context, payload []byte) error {
	select {
	case c.send <- payload:
	default:
		c.metrics.MessagesDropped.Inc()
		c.log.Warn("outbound buffer full, dropping payload", "user", c.user.ID, "conn", c.connID)
	}
	return nil
}

// Start registers the connection as the user's active sink and launches the
// read and write pumps. It returns immediately.
func (c *Conn) Start() {
	c.registry.Register(c.user.ID, c.connID, c)
	c.metrics.ActiveConnections.Inc()
	go c.writePump()
	go c.readPump()
}

// readPump consumes inbound frames in order, one at a time, so replies and
// echoes leave in the order the client sent them. On exit the registry entry
// is removed only if this connection still owns it: a newer session from the
// same user must not be evicted by a stale disconnect.
func (c *Conn) readPump() {
	defer func() {
		c.registry.Unregister(c.user.ID, c.connID)
		c.metrics.ActiveConnections.Dec()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Error("read error", "user", c.user.ID, "conn", c.connID, "error", err)
			}
			return
		}

		if err := c.chat.HandleInbound(context.Background(), c.user, data, c); err != nil {
			c.log.Error("inbound handling failed", "user", c.user.ID, "error", err)
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
