package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	// sendBuffer bounds how far a viewer may lag before the hub drops
	// it.  Payloads are full documents, so losing intermediate frames
	// only costs freshness, never correctness.
	sendBuffer = 8
)

// Client adapts one WebSocket connection to the hub's Subscriber
// interface.  Writes go through a buffered channel drained by a single
// writer goroutine, because gorilla connections allow only one
// concurrent writer.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// NewClient wraps an upgraded connection.  The caller must start
// WritePump in its own goroutine.
func NewClient(conn *websocket.Conn, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
		logger: logger,
	}
}

// Deliver implements Subscriber.  It never blocks: a full buffer means
// the viewer is too slow and the hub should drop it.
func (c *Client) Deliver(msg []byte) bool {
	select {
	case <-c.closed:
		return false
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// WritePump drains the send buffer onto the socket and keeps the
// connection alive with pings.  It returns when Close is called or the
// peer goes away.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("realtime write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// ReadMessage blocks for the next text frame from the peer.
func (c *Client) ReadMessage() ([]byte, error) {
	_, msg, err := c.conn.ReadMessage()
	return msg, err
}

// Close shuts the connection down exactly once.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}
