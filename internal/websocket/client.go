package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Client is one websocket subscriber attached to a session's event stream.
type Client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan Frame
	closeOnce sync.Once
	done      chan struct{}
	log       zerolog.Logger
}

// NewClient wraps an upgraded connection for a session.
func NewClient(sessionID string, conn *websocket.Conn, log zerolog.Logger) *Client {
	return &Client{
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan Frame, sendBufferSize),
		done:      make(chan struct{}),
		log:       log.With().Str("component", "ws_client").Str("session_id", sessionID).Logger(),
	}
}

// Close shuts the client down. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// WritePump pushes queued frames and pings to the peer. It blocks until the
// client closes or a write fails; run it on its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				c.log.Debug().Err(err).Msg("Write failed, closing client")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// ReadPump consumes control frames from the peer so pong handling works and
// disconnects are noticed. Inbound data frames are discarded; this stream is
// push-only.
func (c *Client) ReadPump() {
	defer c.Close()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
