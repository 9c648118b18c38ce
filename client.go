package main

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is the transport handle for one websocket connection. Identity
// is the session id; a player is only associated with it once the first
// create_room or join_room message arrives.
type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
}

func (c *Client) readPump(m *Manager) {
	defer func() {
		m.disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logrus.WithField("session", c.id).WithError(err).Debug("dropping malformed message")
			continue
		}

		m.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// trySend queues msg for delivery. Messages are dropped when the client's
// buffer is full; dead connections are cleaned up by the disconnect path,
// never at send time.
func (c *Client) trySend(msg any) {
	if c == nil {
		return
	}

	select {
	case c.send <- msg:
	default:
	}
}
