// internal/websocket/client.go
package websocket

import (
	"time"

	wstypes "mobiwash-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// ClientAuth holds authentication information
type ClientAuth struct {
	StaffID   int64
	SessionID string
	Email     string
	Role      string
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	staffID int64
	email   string
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 64),
		staffID: auth.StaffID,
		email:   auth.Email,
	}
}

// Start registers the client and runs its pumps. The caller's goroutine
// becomes the read pump.
func (c *Client) Start() {
	c.hub.register <- c

	welcome := wstypes.NewMessage(wstypes.EventTypeConnected, nil)
	if data, err := welcome.ToJSON(); err == nil {
		c.send <- data
	}

	go c.writePump()
	c.readPump()
}

// readPump drains client messages. The stream is server-push; the only
// client messages honored are pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error",
					zap.Int64("staff_id", c.staffID),
					zap.Error(err),
				)
			}
			return
		}

		msg, err := wstypes.ParseMessage(raw)
		if err != nil {
			continue
		}

		if msg.Type == wstypes.EventTypePing {
			pong := wstypes.NewMessage(wstypes.EventTypePong, nil)
			if data, err := pong.ToJSON(); err == nil {
				select {
				case c.send <- data:
				default:
				}
			}
		}
	}
}

// writePump flushes queued events and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
