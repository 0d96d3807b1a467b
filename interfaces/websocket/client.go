package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames, so reads stay small.
	maxMessageSize = 4 * 1024

	// Send buffer size
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	id      string
	dataset string // empty subscribes to every dataset
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	logger  *zap.Logger
}

// NewClient creates a new WebSocket client
func NewClient(dataset string, hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:      id,
		dataset: dataset,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		logger:  logger.With(zap.String("connectionID", id)),
	}
}

// Start registers the client and begins its read and write pumps
func (c *Client) Start() {
	if !c.hub.registerClient(c) {
		c.conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()

	c.hub.send(c, "connection.established", map[string]string{
		"connectionId": c.id,
		"dataset":      c.dataset,
	})
}

// ID returns the client's connection ID
func (c *Client) ID() string {
	return c.id
}

func (c *Client) wants(dataset string) bool {
	return c.dataset == "" || dataset == "" || c.dataset == dataset
}

// readPump only drains control frames; it ends when the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
		c.logger.Debug("Read pump stopped")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Debug("Write pump stopped")
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
