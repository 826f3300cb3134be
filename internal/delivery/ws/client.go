package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/salachat/server/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client owns one websocket connection and its User for the connection's
// lifetime. The read deadline doubles as the liveness monitor: a peer that
// stops answering pings times out in ReadPump and goes through the normal
// disconnect cleanup.
type Client struct {
	User *domain.User
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// closeCode/closeReason are set by the hub before closing send, so
	// WritePump can emit a distinguishing close frame after flushing.
	closeCode   int
	closeReason string
}

func newClient(hub *Hub, conn *websocket.Conn, user *domain.User) *Client {
	return &Client{
		User: user,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump pulls frames from the connection and dispatches them into the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxFrameBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.hub.dispatch(c, frame)
	}
}

// WritePump pumps queued frames to the connection and keeps the peer alive
// with periodic pings. When the hub closes the send channel, any buffered
// frames are flushed first and the connection is closed with the code the
// hub recorded on the client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				code := c.closeCode
				if code == 0 {
					code = websocket.CloseNormalClosure
				}
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, c.closeReason))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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

// Send queues a frame for delivery. A full buffer drops the frame rather
// than block the relay; slow peers lose frames, peers' fan-out is unaffected.
func (c *Client) Send(frame []byte) {
	select {
	case c.send <- frame:
	default:
		// Buffer full
	}
}
