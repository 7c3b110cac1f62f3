package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"deliverytracker/internal/core/domain/model/tracking"
	"deliverytracker/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxFrame   = 4096
)

// ErrSendQueueFull is returned by Send when the peer is not draining its queue.
var ErrSendQueueFull = errors.New("send queue full")

// Connection is one websocket client. Sessions write to it through Send, which
// only enqueues; a single writer goroutine owns the socket writes.
type Connection struct {
	id     string
	socket *websocket.Conn
	logger *slog.Logger

	mu     sync.Mutex
	queue  chan ServerMessage
	closed bool
}

func newConnection(id string, socket *websocket.Conn, queueSize int, logger *slog.Logger) *Connection {
	return &Connection{
		id:     id,
		socket: socket,
		logger: logger.With("conn", id),
		queue:  make(chan ServerMessage, queueSize),
	}
}

func (c *Connection) ID() string {
	return c.id
}

// Send queues a location update. It never blocks.
func (c *Connection) Send(update tracking.Update) error {
	return c.enqueue(locationUpdateMessage(update))
}

func (c *Connection) enqueue(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ports.ErrConnectionClosed
	}

	select {
	case c.queue <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// close stops accepting messages; the writer drains what is queued and sends
// a close frame.
func (c *Connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.queue)
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.socket.Close()
	}()

	for {
		select {
		case msg, ok := <-c.queue:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.socket.WriteJSON(msg); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
