package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Conn is the subset of *websocket.Conn the client uses. Tests substitute a
// mock implementation.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one live connection. The identity fields (username, userID,
// registeredAt) are written and read only inside the hub's run loop.
type Client struct {
	id   string
	hub  *Hub
	conn Conn
	send chan []byte

	username     string
	userID       string
	registeredAt time.Time

	ctx        context.Context
	cancel     context.CancelFunc
	closed     int32
	sendClosed int32
}

func NewClient(hub *Hub, conn Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:           uuid.New().String(),
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, 256),
		registeredAt: time.Now(),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (c *Client) GetID() string {
	return c.id
}

// isClosed returns true if the client is closed
func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client as closed and cancels the context
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		slog.Debug("Client marked as closed", "clientID", c.id)
	}
}

// closeSendChannel safely closes the send channel
func (c *Client) closeSendChannel() {
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.close()

		select {
		case c.hub.unregister <- c:
		case <-time.After(5 * time.Second):
			slog.Warn("Timeout sending unregister request", "clientID", c.id)
		}

		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "error", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			slog.Error("Failed to unmarshal message", "clientID", c.id, "error", err)
			c.sendError("INVALID_MESSAGE", "Invalid message format")
			continue
		}

		msg.Timestamp = time.Now().Unix()
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}

		select {
		case c.hub.inbound <- &ClientMessage{Client: c, Message: &msg}:
		case <-time.After(5 * time.Second):
			slog.Warn("Timeout sending message to hub", "clientID", c.id)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "error", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// SendMessage queues a message for delivery. Delivery is best-effort: a full
// buffer or a closed client drops the message and reports ErrClientDisconnected.
func (c *Client) SendMessage(message *Message) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientDisconnected
	default:
		slog.Warn("Send buffer full, closing client", "clientID", c.id)
		c.close()
		c.closeSendChannel()
		return ErrClientDisconnected
	}
}

func (c *Client) sendError(code, message string) {
	c.SendMessage(NewErrorMessage(uuid.New().String(), code, message))
}
